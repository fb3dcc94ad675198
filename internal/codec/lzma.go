// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/aibor/packstream/internal/packerr"
	"github.com/ulikunitz/xz/lzma"
)

const (
	// PropertiesLen is the length of the LZMA property block: one byte
	// encoding lc, lp and pb followed by the dictionary size as little endian
	// uint32.
	PropertiesLen = 5
	// HeaderLen is the length of the LZMA-alone header: the property block
	// followed by the uncompressed size as little endian uint64.
	HeaderLen = PropertiesLen + 8
	// BlockSize is the amount of input processed between two progress
	// checkpoints.
	BlockSize = 1 << 16

	minFastBytes = 5
	maxFastBytes = 273
	maxAlgorithm = 2
)

// LZMA is a [Codec] producing raw LZMA streams.
//
// The [Algorithm] and [NumFastBytes] properties are validated but have no
// effect on the produced stream.
type LZMA struct {
	props     lzma.Properties
	dictCap   int
	algorithm int
	fastBytes int
	matcher   lzma.MatchAlgorithm
	endMarker bool
}

var _ Codec = (*LZMA)(nil)

// NewLZMA creates a new [LZMA] codec configured with [DefaultProperties].
func NewLZMA() *LZMA {
	return &LZMA{
		props: lzma.Properties{
			LC: DefaultLitContextBits,
			LP: DefaultLitPosBits,
			PB: DefaultPosStateBits,
		},
		dictCap:   DefaultDictionarySize,
		algorithm: DefaultAlgorithm,
		fastBytes: DefaultNumFastBytes,
		matcher:   lzma.BinaryTree,
		endMarker: DefaultEndMarker,
	}
}

// SetProperties implements [Codec]. Either all properties are applied or
// none.
func (c *LZMA) SetProperties(props []Property) error {
	next := *c

	for _, prop := range props {
		err := next.set(prop)
		if err != nil {
			return packerr.Codec("set properties", err)
		}
	}

	*c = next

	return nil
}

//nolint:cyclop
func (c *LZMA) set(prop Property) error {
	var err error

	switch prop.ID {
	case DictionarySize:
		var value int64

		value, err = prop.intValue(lzma.MinDictCap, lzma.MaxDictCap)
		c.dictCap = int(value)
	case PosStateBits:
		var value int64

		value, err = prop.intValue(lzma.MinPB, lzma.MaxPB)
		c.props.PB = int(value)
	case LitContextBits:
		var value int64

		value, err = prop.intValue(lzma.MinLC, lzma.MaxLC)
		c.props.LC = int(value)
	case LitPosBits:
		var value int64

		value, err = prop.intValue(lzma.MinLP, lzma.MaxLP)
		c.props.LP = int(value)
	case Algorithm:
		var value int64

		value, err = prop.intValue(0, maxAlgorithm)
		c.algorithm = int(value)
	case NumFastBytes:
		var value int64

		value, err = prop.intValue(minFastBytes, maxFastBytes)
		c.fastBytes = int(value)
	case MatchFinder:
		var value string

		value, err = prop.stringValue()
		if err == nil {
			c.matcher, err = matcherFor(value)
		}
	case EndMarker:
		c.endMarker, err = prop.boolValue()
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownProperty, prop.ID)
	}

	return err
}

func matcherFor(name string) (lzma.MatchAlgorithm, error) {
	switch name {
	case "bt2", "bt3", "bt4":
		return lzma.BinaryTree, nil
	case "hc4":
		return lzma.HashTable4, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrMatchFinder, name)
	}
}

// WriteProperties implements [Codec].
func (c *LZMA) WriteProperties(w io.Writer) error {
	var block [PropertiesLen]byte

	block[0] = byte((c.props.PB*5+c.props.LP)*9 + c.props.LC)
	binary.LittleEndian.PutUint32(block[1:], uint32(c.dictCap))

	_, err := w.Write(block[:])
	if err != nil {
		return packerr.Codec("write properties", err)
	}

	return nil
}

// Code implements [Codec]. It writes the raw LZMA payload only, without
// property block and size. If inSize is -1, the payload is terminated by an
// end marker. Otherwise in must provide exactly inSize bytes.
func (c *LZMA) Code(
	in io.Reader,
	out io.Writer,
	inSize int64,
	_ int64,
	sink ProgressSink,
) error {
	props := c.props
	counter := &countingWriter{w: out}

	config := lzma.WriterConfig{
		Properties:   &props,
		DictCap:      c.dictCap,
		Matcher:      c.matcher,
		SizeInHeader: inSize >= 0,
		Size:         max(inSize, 0),
		EOSMarker:    c.endMarker || inSize < 0,
	}

	// The encoder always emits an LZMA-alone header. The property block and
	// size are written by the caller, so the header is dropped here.
	writer, err := config.NewWriter(&skipWriter{w: counter, skip: HeaderLen})
	if err != nil {
		return packerr.Codec("create encoder", err)
	}

	var read int64

	err = forEachBlock(in, func(block []byte) error {
		_, err := writer.Write(block)
		if err != nil {
			return packerr.Codec("encode", err)
		}

		read += int64(len(block))

		if sink != nil {
			return sink.SetProgress(read, counter.n)
		}

		return nil
	})
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return packerr.Codec("finish stream", err)
	}

	return nil
}

// Decode decodes the LZMA-alone stream from in, starting with its header,
// into out. It returns the number of bytes written to out.
func Decode(in io.Reader, out io.Writer, sink ProgressSink) (int64, error) {
	counter := &countingReader{r: in}

	reader, err := lzma.NewReader(counter)
	if err != nil {
		return 0, packerr.Codec("create decoder", err)
	}

	var written int64

	err = forEachBlock(reader, func(block []byte) error {
		_, err := out.Write(block)
		if err != nil {
			return packerr.Codec("write output", err)
		}

		written += int64(len(block))

		if sink != nil {
			return sink.SetProgress(counter.n, written)
		}

		return nil
	})

	return written, err
}

// forEachBlock reads r in blocks of [BlockSize] and calls fn for each of
// them. Errors returned by fn are returned unchanged.
func forEachBlock(r io.Reader, fn func(block []byte) error) error {
	buf := make([]byte, BlockSize)

	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			err := fn(buf[:n])
			if err != nil {
				return err
			}
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			return nil
		default:
			return packerr.Codec("read input", readErr)
		}
	}
}
