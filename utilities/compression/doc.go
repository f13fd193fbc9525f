// Package compression provides run-length codecs for the byte buffers this
// repository moves around: sprite sheets, sample data, palette tables, and
// other asset payloads that tend to have long runs of a repeated byte (a
// transparent background color, silence, an unused palette slot).
//
// Two distinct run-length schemes live here. RLE8 is the scheme used by the
// Microsoft BMP file format: if a byte B occurs N times where N >= 2, B is
// written twice, followed by a third (unsigned) byte indicating how many
// additional times B occurred. For example:
//
//		WXXXXXXXXXXXXXXXYZZ
//		W XX 13 Y ZZ 0
//
// This scheme lets us represent runs of up to 257 bytes with three bytes. For
// runs longer than 257 bytes, they are treated as separate runs. For example,
// a run of 300 "X" is represented as `XX 255 XX 41`. Unfortunately, using a
// byte as its own escape sequence means that occurrences of the same byte
// exactly twice are stored as three bytes: the two bytes followed by a null
// byte indicating no further repetition.
//
// RLE90 instead reserves a single sentinel byte (0x90) as the escape: a run
// is written as the repeated byte once, followed by 0x90 and a count. A
// literal 0x90 in the source data is escaped as `90 00`. This trades RLE8's
// "doubled byte is the escape" approach for a fixed sentinel, at the cost of
// needing an explicit escape for any 0x90 that occurs on its own.
//
// Both codecs are also exposed as filtered.Filter adapters in this package
// (see filter.go), so either one can sit in a filtered stream's read/write
// chain the same way the identity filter does.
package compression
