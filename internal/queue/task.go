package queue

// Command identifies what a Task asks the worker to do.
type Command uint8

const (
	// CommandExit stops the worker.
	CommandExit Command = iota
	// CommandWriteToDisk persists a buffer.
	CommandWriteToDisk
)

func (c Command) String() string {
	switch c {
	case CommandExit:
		return "exit"
	case CommandWriteToDisk:
		return "write"
	default:
		return "unknown"
	}
}

// Buffer is an encoded entry handed to the worker.
// A *Buffer is an identity: two sets of the same entry produce two buffers.
type Buffer struct {
	id   uint32
	data []byte
}

// NewBuffer wraps data for entry id.
func NewBuffer(id uint32, data []byte) *Buffer {
	return &Buffer{id: id, data: data}
}

// ID returns the entry the buffer belongs to.
func (b *Buffer) ID() uint32 { return b.id }

// Bytes returns the encoded entry.
func (b *Buffer) Bytes() []byte { return b.data }

// Size returns the encoded entry size in bytes.
func (b *Buffer) Size() int64 { return int64(len(b.data)) }

// Task is a unit of deferred work.
type Task struct {
	Command Command
	Path    string
	Buffer  *Buffer
}

func exitTask() Task {
	return Task{Command: CommandExit}
}

func writeTask(path string, buf *Buffer) Task {
	return Task{Command: CommandWriteToDisk, Path: path, Buffer: buf}
}
