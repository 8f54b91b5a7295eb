package jpeg

import (
	"io"

	"github.com/deepteams/raster/core"
)

// readByte reads one byte, wrapping EOF as NotEnoughData per spec §7.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, core.Wrap(core.NotEnoughData, "reading jpeg byte", err)
	}
	return b, nil
}

func (d *Decoder) readUint16() (int, error) {
	hi, err := d.readByte()
	if err != nil {
		return 0, err
	}
	lo, err := d.readByte()
	if err != nil {
		return 0, err
	}
	return int(hi)<<8 | int(lo), nil
}

// nextMarker scans forward until it finds a 0xFF byte followed by a
// non-zero, non-0xFF identifier, and returns the identifier.
func (d *Decoder) nextMarker() (byte, error) {
	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			continue
		}
		for {
			m, err := d.readByte()
			if err != nil {
				return 0, err
			}
			if m == 0xFF {
				continue
			}
			if m == 0x00 {
				break // stuffed literal 0xFF, not a marker; keep scanning
			}
			return m, nil
		}
	}
}

// parseHeader consumes SOI and all marker segments up to (and not
// including) the entropy-coded data following SOS, per spec §4.D.
func (d *Decoder) parseHeader() error {
	m, err := d.nextMarker()
	if err != nil {
		return err
	}
	if m != markerSOI {
		return core.New(core.FormatError, "missing SOI marker")
	}

	for {
		m, err := d.nextMarker()
		if err != nil {
			return err
		}
		switch {
		case m == markerDQT:
			if err := d.readDQT(); err != nil {
				return err
			}
		case m == markerDHT:
			if err := d.readDHT(); err != nil {
				return err
			}
		case m == markerSOF0:
			if err := d.readSOF0(); err != nil {
				return err
			}
		case m == markerSOF2:
			return core.New(core.UnsupportedError, "progressive JPEG is not supported")
		case m == markerDRI:
			if err := d.readDRI(); err != nil {
				return err
			}
		case m == markerSOS:
			return d.readSOSHeader()
		case m == markerDNL:
			return core.New(core.UnsupportedError, "DNL segment is not supported")
		case m >= 0xE0 && m <= 0xEF, m == 0xFE: // APPn, COM
			if err := d.skipSegment(); err != nil {
				return err
			}
		case m == markerEOI:
			return core.New(core.FormatError, "unexpected EOI before SOS")
		default:
			if err := d.skipSegment(); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) skipSegment() error {
	length, err := d.readUint16()
	if err != nil {
		return err
	}
	_, err = io.CopyN(io.Discard, d.r, int64(length-2))
	if err != nil {
		return core.Wrap(core.NotEnoughData, "skipping jpeg segment", err)
	}
	return nil
}

func (d *Decoder) readDQT() error {
	length, err := d.readUint16()
	if err != nil {
		return err
	}
	remaining := length - 2
	for remaining > 0 {
		pqTq, err := d.readByte()
		if err != nil {
			return err
		}
		pq := pqTq >> 4
		tq := pqTq & 0x0F
		if pq != 0 {
			return core.New(core.UnsupportedError, "16-bit DQT precision is not supported")
		}
		if tq > 3 {
			return core.New(core.FormatError, "invalid DQT table id")
		}
		var table [64]int32
		for i := 0; i < 64; i++ {
			b, err := d.readByte()
			if err != nil {
				return err
			}
			table[i] = int32(b)
		}
		d.quantTables[tq] = &table
		remaining -= 1 + 64
	}
	return nil
}

func (d *Decoder) readDHT() error {
	length, err := d.readUint16()
	if err != nil {
		return err
	}
	remaining := length - 2
	for remaining > 0 {
		tcTh, err := d.readByte()
		if err != nil {
			return err
		}
		tc := tcTh >> 4
		th := tcTh & 0x0F
		if tc > 1 || th > 1 {
			return core.New(core.FormatError, "invalid DHT table class/id")
		}
		var counts [16]byte
		total := 0
		for i := 0; i < 16; i++ {
			b, err := d.readByte()
			if err != nil {
				return err
			}
			counts[i] = b
			total += int(b)
		}
		symbols := make([]byte, total)
		for i := range symbols {
			b, err := d.readByte()
			if err != nil {
				return err
			}
			symbols[i] = b
		}
		table := buildHuffmanTable(counts, symbols)
		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
		remaining -= 1 + 16 + total
	}
	return nil
}

func (d *Decoder) readSOF0() error {
	if _, err := d.readUint16(); err != nil { // length, unused beyond framing
		return err
	}
	precision, err := d.readByte()
	if err != nil {
		return err
	}
	if precision != 8 {
		return core.New(core.UnsupportedError, "only 8-bit precision is supported")
	}
	h, err := d.readUint16()
	if err != nil {
		return err
	}
	w, err := d.readUint16()
	if err != nil {
		return err
	}
	if w == 0 || h == 0 {
		return core.New(core.DimensionError, "zero width or height")
	}
	d.width, d.height = w, h

	nf, err := d.readByte()
	if err != nil {
		return err
	}
	d.components = make([]component, nf)
	for i := 0; i < int(nf); i++ {
		id, err := d.readByte()
		if err != nil {
			return err
		}
		sampling, err := d.readByte()
		if err != nil {
			return err
		}
		tq, err := d.readByte()
		if err != nil {
			return err
		}
		d.components[i] = component{
			id:         int(id),
			hSamp:      int(sampling >> 4),
			vSamp:      int(sampling & 0x0F),
			quantTable: int(tq),
		}
	}
	if len(d.components) == 1 {
		d.components[0].hSamp = 1
		d.components[0].vSamp = 1
		d.grey = true
	}
	for _, c := range d.components {
		if c.hSamp > d.hMax {
			d.hMax = c.hSamp
		}
		if c.vSamp > d.vMax {
			d.vMax = c.vSamp
		}
	}
	return nil
}

func (d *Decoder) readDRI() error {
	if _, err := d.readUint16(); err != nil {
		return err
	}
	n, err := d.readUint16()
	if err != nil {
		return err
	}
	d.restartInterval = n
	return nil
}

func (d *Decoder) readSOSHeader() error {
	if _, err := d.readUint16(); err != nil {
		return err
	}
	ns, err := d.readByte()
	if err != nil {
		return err
	}
	for i := 0; i < int(ns); i++ {
		cs, err := d.readByte()
		if err != nil {
			return err
		}
		tables, err := d.readByte()
		if err != nil {
			return err
		}
		for ci := range d.components {
			if d.components[ci].id == int(cs) {
				d.components[ci].dcTable = int(tables >> 4)
				d.components[ci].acTable = int(tables & 0x0F)
			}
		}
	}
	ss, err := d.readByte()
	if err != nil {
		return err
	}
	se, err := d.readByte()
	if err != nil {
		return err
	}
	ahAl, err := d.readByte()
	if err != nil {
		return err
	}
	if ss != 0 || se != 63 || ahAl != 0 {
		return core.New(core.UnsupportedError, "only baseline (Ss=0,Se=63,Ah=Al=0) scans are supported")
	}

	rest, err := io.ReadAll(d.r)
	if err != nil {
		return core.Wrap(core.NotEnoughData, "reading entropy-coded data", err)
	}
	d.buf = rest
	return nil
}
