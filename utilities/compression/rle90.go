package compression

import (
	"bytes"
	"io"
)

// RLE90Reader decompresses data encoded with the RLE90 scheme (sentinel byte
// 0x90 followed by a repeat count), as used by [RLE90ReadFilter].
type RLE90Reader struct {
	io.ReadCloser
	stream               io.ByteReader
	lastByte             byte
	remainingRepeatCount int
}

// RLE90Writer encodes data with the RLE90 scheme, as used by [RLE90WriteFilter].
type RLE90Writer struct {
	io.WriteCloser
	stream            io.Writer
	lastByte          int
	lastByteRunLength int
}

// NewRLE90Reader returns an io.Reader which decompresses RLE90-encoded data from rd.
func NewRLE90Reader(rd io.ByteReader) (RLE90Reader, error) {
	return RLE90Reader{stream: rd}, nil
}

// Read does not currently reject a stream that starts with 0x90 followed by
// a non-zero byte as anything other than a run; malformed input of that
// specific shape is decoded rather than rejected.
func (reader *RLE90Reader) Read(p []byte) (int, error) {
	var writeSize int
	var sliceToWrite []byte
	numBytesRead := 0

	// Copy data we've expanded but didn't read into the output buffer
	if reader.remainingRepeatCount > 0 {
		if len(p) > reader.remainingRepeatCount {
			writeSize = reader.remainingRepeatCount
		} else {
			writeSize = len(p)
		}

		sliceToWrite = bytes.Repeat([]byte{reader.lastByte}, writeSize)
		copy(p, sliceToWrite)
		numBytesRead += writeSize
		reader.remainingRepeatCount -= writeSize
	}

	for numBytesRead < len(p) {
		nextByte, err := reader.stream.ReadByte()
		if err == io.EOF {
			// If we hit EOF at the beginning of the loop then this isn't an error.
			// It's only an error if we hit EOF immediately after a 0x90 byte.
			return numBytesRead, io.EOF
		} else if err != nil {
			// Didn't hit EOF, must've been an I/O error.
			return numBytesRead, err
		}

		if nextByte != '\x90' {
			reader.lastByte = nextByte
			p[numBytesRead] = nextByte
			numBytesRead++
			continue
		}

		// Hit a sentinel, expecting another byte indicating the repeat count.
		repeatCountByte, err := reader.stream.ReadByte()
		if err != nil {
			// No repeat count after the sentinel -- this is an error.
			return 0, io.ErrUnexpectedEOF
		}

		repeatCount := int(repeatCountByte)
		if repeatCount == 0 {
			// Escape sequence 0x90 0x00 gives 0x90
			p[numBytesRead] = '\x90'
			reader.lastByte = '\x90'
			numBytesRead++
		} else {
			remainingSpace := len(p) - numBytesRead
			if remainingSpace < repeatCount {
				// Buffer doesn't have enough space for the remaining duplicated
				// bytes.
				writeSize = remainingSpace
				reader.remainingRepeatCount = repeatCount - remainingSpace
			} else {
				// Buffer has enough space for the repeated byte count.
				writeSize = repeatCount
				reader.remainingRepeatCount = 0
			}

			sliceToWrite := bytes.Repeat([]byte{reader.lastByte}, writeSize)
			copy(p[numBytesRead:numBytesRead+writeSize], sliceToWrite)
			numBytesRead += writeSize
		}
	}

	if numBytesRead < len(p) {
		return numBytesRead, io.EOF
	}
	return numBytesRead, nil
}

// ReadAll unpacks the remainder of the data in the reader and returns it as a
// byte array.
func (reader *RLE90Reader) ReadAll() ([]byte, error) {
	fullContents := new(bytes.Buffer)
	var intermediateBuffer [512]byte

	for {
		sizeWritten, err := reader.Read(intermediateBuffer[:])
		fullContents.Write(intermediateBuffer[:sizeWritten])
		if err == io.EOF {
			return fullContents.Bytes(), nil
		}
		if err != nil {
			return fullContents.Bytes(), err
		}
		if sizeWritten < len(intermediateBuffer) {
			return fullContents.Bytes(), nil
		}
	}
}

func (reader *RLE90Reader) Close() error {
	return nil
}

// NewRLE90Writer returns an io.Writer which encodes data written to it using
// the RLE90 scheme.
func NewRLE90Writer(stream io.Writer) (RLE90Writer, error) {
	return RLE90Writer{stream: stream, lastByte: -1}, nil
}

// sentinelByte is RLE90's escape marker. A literal occurrence of this byte
// value in the input can't be written as-is, since the reader would mistake
// it for the start of an escape sequence; see flushPending.
const sentinelByte = 0x90

// Write buffers p's bytes into the run currently being tracked, flushing
// the previous run to the underlying stream whenever a different byte
// value arrives. Nothing reaches the stream until a run ends or Flush is
// called, so the final run of a Write sequence needs an explicit Flush (or
// Close) to appear in the output.
func (writer *RLE90Writer) Write(p []byte) (int, error) {
	for _, nextByte := range p {
		if writer.lastByteRunLength > 0 && int(nextByte) == writer.lastByte {
			writer.lastByteRunLength++
			continue
		}
		if writer.lastByteRunLength > 0 {
			if err := writer.flushPending(); err != nil {
				return 0, err
			}
		}
		writer.lastByte = int(nextByte)
		writer.lastByteRunLength = 1
	}
	return len(p), nil
}

// flushPending writes out the run currently being tracked, if any: the
// run's first occurrence (as a literal byte, or as a `90 00` escape if the
// run's value is itself the sentinel), followed by however many additional
// repeats are needed.
func (writer *RLE90Writer) flushPending() error {
	if writer.lastByteRunLength <= 0 {
		return nil
	}

	value := byte(writer.lastByte)
	count := writer.lastByteRunLength
	writer.lastByte = -1
	writer.lastByteRunLength = 0

	if value == sentinelByte {
		if _, err := writer.stream.Write([]byte{sentinelByte, 0}); err != nil {
			return err
		}
		return writer.writeAdditionalSentinelRepeats(count - 1)
	}

	if _, err := writer.stream.Write([]byte{value}); err != nil {
		return err
	}
	return writer.writeDuplicatedByte(value, count-1)
}

// writeDuplicatedByte writes count additional repeats of value beyond the
// one already on the stream, batching runs longer than 254 into multiple
// sentinel-escaped chunks. value must not be the sentinel byte; those are
// handled by writeAdditionalSentinelRepeats instead, since a repeated
// sentinel can't be written as a literal run.
func (writer *RLE90Writer) writeDuplicatedByte(value byte, count int) error {
	for count > 3 {
		nextWriteCount := count
		if nextWriteCount > 254 {
			nextWriteCount = 254
		}

		if _, err := writer.stream.Write([]byte{sentinelByte, byte(nextWriteCount)}); err != nil {
			return err
		}

		count -= nextWriteCount
	}

	if count > 0 {
		sliceToWrite := bytes.Repeat([]byte{value}, count)
		_, err := writer.stream.Write(sliceToWrite)
		return err
	}
	return nil
}

// writeAdditionalSentinelRepeats writes count additional 0x90 bytes beyond
// the one already escaped via `90 00`. Since the sentinel itself can't be
// written literally, every batch (however small) uses the escape form.
func (writer *RLE90Writer) writeAdditionalSentinelRepeats(count int) error {
	for count > 0 {
		batch := count
		if batch > 254 {
			batch = 254
		}
		if _, err := writer.stream.Write([]byte{sentinelByte, byte(batch)}); err != nil {
			return err
		}
		count -= batch
	}
	return nil
}

// Flush writes out any buffered run, even if it hasn't been broken by a
// different byte yet. Call this before reading back anything written to the
// underlying stream.
func (writer *RLE90Writer) Flush() error {
	return writer.flushPending()
}

type Flusher interface {
	Flush() error
}

// Close flushes any buffered run. It does not close the underlying stream,
// since RLE90Writer doesn't own it.
func (writer *RLE90Writer) Close() error {
	return writer.Flush()
}

// CompressBytes RLE90-encodes unpacked in a single call and returns the
// result, for callers that want a one-shot encode rather than a streaming
// [RLE90WriteFilter].
func CompressBytes(unpacked []byte) ([]byte, error) {
	var targetBuffer bytes.Buffer
	_ = io.Writer(&targetBuffer)

	writer, err := NewRLE90Writer(&targetBuffer)
	if err != nil {
		return nil, err
	}

	_, err = writer.Write(unpacked)
	if err != nil {
		return targetBuffer.Bytes(), err
	}
	err = writer.Flush()
	return targetBuffer.Bytes(), err
}

// DecompressBytes is CompressBytes's inverse.
func DecompressBytes(packed []byte) ([]byte, error) {
	packedCopy := make([]byte, len(packed))
	copy(packedCopy, packed)
	stream := bytes.NewReader(packedCopy)
	reader, err := NewRLE90Reader(stream)
	if err != nil {
		return nil, err
	}
	return reader.ReadAll()
}
