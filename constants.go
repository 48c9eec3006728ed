package gnio

import (
	"strings"

	"github.com/Giulio2002/gnio/mmap"
)

// Transfer sizes
const (
	// TransferSize is the default size of the intermediate buffer used when
	// neither the zero-copy nor the mapped transfer path applies (8KB)
	TransferSize = 8192

	// MappedTransferSize is the largest source window mapped at once by
	// the mapped transfer path (8MB)
	MappedTransferSize = 8 << 20

	// DefaultPerm is the permission used for files created by Open
	DefaultPerm = 0644
)

// OpenFlag selects the access mode and creation behaviour of Open.
type OpenFlag uint

const (
	// Read opens the channel for reading
	Read OpenFlag = 1 << iota

	// Write opens the channel for writing
	Write

	// Append makes every write start at the current end of the file
	Append

	// Create creates the file if it does not exist
	Create

	// CreateNew creates the file, failing if it already exists
	CreateNew

	// Truncate truncates an existing file to zero length when writing
	Truncate

	// ReadWrite opens the channel for reading and writing
	ReadWrite = Read | Write
)

var flagNames = []struct {
	flag OpenFlag
	name string
}{
	{Read, "read"},
	{Write, "write"},
	{Append, "append"},
	{Create, "create"},
	{CreateNew, "create-new"},
	{Truncate, "truncate"},
}

func (f OpenFlag) String() string {
	var parts []string
	for _, n := range flagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// MapMode selects how Channel.Map shares the mapped region with the file.
type MapMode = mmap.Mode

const (
	// MapReadOnly maps the region for reading; puts fail
	MapReadOnly = mmap.ReadOnly

	// MapReadWrite maps the region shared; puts reach the file
	MapReadWrite = mmap.ReadWrite

	// MapPrivate maps the region copy-on-write; puts never reach the file
	MapPrivate = mmap.Private
)
