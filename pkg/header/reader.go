/*
Copyright © 2023 Kovalev Pavel kovalev5690@gmail.com

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/package header

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

var ErrNoInput = errors.New("Header reader is not open")

// Stdin is the file name that stands for standard input.
const Stdin = "-"

type Reader struct {
	Filename string

	src    io.Reader
	reader *bufio.Reader
	file   *os.File
	line   int
}

func NewReader(filename string) *Reader {
	return &Reader{
		Filename: filename,
	}
}

// NewReaderFrom wraps an already open stream. Close is a no-op for it.
func NewReaderFrom(r io.Reader) *Reader {
	return &Reader{
		Filename: Stdin,
		src:      r,
		reader:   bufio.NewReader(r),
	}
}

func (r *Reader) Open() error {
	f, err := os.Open(r.Filename)
	if err != nil {
		return err
	}
	r.src = f
	r.reader = bufio.NewReader(f)
	r.file = f
	return nil
}

// CloseOnDone closes the underlying stream once ctx is done, so a
// ReadLine blocked on a silent pipe or terminal returns. Streams that
// are not io.Closers are left alone. Call stop to release the hook.
func (r *Reader) CloseOnDone(ctx context.Context) (stop func() bool) {
	src := r.src
	return context.AfterFunc(ctx, func() {
		if c, ok := src.(io.Closer); ok {
			c.Close()
		}
	})
}

func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Line returns the number of the line most recently returned by ReadLine.
func (r *Reader) Line() int {
	return r.line
}

// ReadLine returns the next line without its terminator. A final line
// lacking a newline is still returned; io.EOF follows it.
func (r *Reader) ReadLine() (string, error) {
	if r.reader == nil {
		return "", ErrNoInput
	}

	buff, err := r.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || len(buff) == 0 {
			return "", err
		}
	}
	r.line++

	buff = strings.TrimSuffix(buff, "\n")
	buff = strings.TrimSuffix(buff, "\r")
	return buff, nil
}
