package install

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// icnsSizes maps the PNG-carrying ICNS element types to their edge length.
var icnsSizes = []struct {
	kind string
	size int
}{
	{"ic07", 128},
	{"ic08", 256},
	{"ic09", 512},
}

// encodeICNS wraps PNG renditions into an Apple icon image. render is called
// once per element size.
func encodeICNS(render func(size int) ([]byte, error)) ([]byte, error) {
	var body bytes.Buffer
	for _, e := range icnsSizes {
		data, err := render(e.size)
		if err != nil {
			return nil, fmt.Errorf("icns %s: %w", e.kind, err)
		}
		body.WriteString(e.kind)
		_ = binary.Write(&body, binary.BigEndian, uint32(len(data)+8))
		body.Write(data)
	}

	var out bytes.Buffer
	out.WriteString("icns")
	_ = binary.Write(&out, binary.BigEndian, uint32(body.Len()+8))
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
