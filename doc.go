// Package gnio provides cursor-based byte buffers and file channels.
//
// A Buffer is a fixed-capacity byte region with a position, a limit and an
// optional mark. Puts and gets move the position; Flip, Rewind, Clear and
// Compact switch the buffer between filling and draining. A failed Put or
// Get leaves every cursor where it was.
//
// A Channel wraps an open file with a position of its own and moves bytes
// between the file and Buffers:
//   - positioned reads and writes, with io.EOF as the end-of-file signal
//   - scattering reads and gathering writes over several Buffers
//   - TransferTo/TransferFrom between channels, using copy_file_range where
//     available, then a mapped source, then a bounded intermediate buffer
//   - Map, which returns a Buffer viewing a memory-mapped region of the file
//     that stays valid until the channel is closed
//
// Failures are *Error values carrying an ErrorCode; use Code or the IsXxx
// helpers to classify them.
//
// Basic usage:
//
//	in, err := gnio.Open("in.dat", gnio.Read)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer in.Close()
//
//	out, err := gnio.Open("out.dat", gnio.Write|gnio.Create|gnio.Truncate)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Close()
//
//	buf, _ := gnio.Allocate(1024)
//	for {
//	    if _, err := in.Read(buf); err == io.EOF {
//	        break
//	    } else if err != nil {
//	        log.Fatal(err)
//	    }
//	    buf.Flip()
//	    if _, err := out.Write(buf); err != nil {
//	        log.Fatal(err)
//	    }
//	    buf.Clear()
//	}
//
// Buffers and Channels are not safe for concurrent use.
package gnio
