package report

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

type document struct {
	XMLName xml.Name `xml:"audit_report"`
	Version string   `xml:"version,attr"`
	Header  Header   `xml:"header"`
	Files   []File   `xml:"file"`
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader(Header{
		Creator: Creator{
			Package:              "extfix",
			Version:              "dev",
			ExecutionEnvironment: GetExecEnv(),
		},
		Source: Source{Roots: []string{"/data", "/more"}, Rename: true},
	}))
	require.NoError(t, w.WriteFile(File{
		Path: "/data/photo.png",
		Ext:  "png",
		Size: 1024,
		Matches: []Match{
			{Kind: "mismatch", Format: "image/jpg", Suggested: "jpg"},
		},
		RenamedTo: "/data/photo.png.jpg",
	}))
	require.NoError(t, w.WriteFile(File{
		Path:    "/data/blob.xyz",
		Ext:     "xyz",
		Matches: []Match{{Kind: "unknown"}},
		Header:  "01 02 03",
	}))
	require.NoError(t, w.Close())

	out := buf.String()
	require.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, out, `<match kind="mismatch" format="image/jpg" suggested="jpg"></match>`)

	var doc document
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, OutputVersion, doc.Version)
	require.Equal(t, []string{"/data", "/more"}, doc.Header.Source.Roots)
	require.Equal(t, "extfix", doc.Header.Creator.Package)
	require.Len(t, doc.Files, 2)
	require.Equal(t, "/data/photo.png.jpg", doc.Files[0].RenamedTo)
	require.Equal(t, "01 02 03", doc.Files[1].Header)
	require.Empty(t, doc.Files[1].Matches[0].Format)
}
