package render

import (
	"bytes"
	"encoding/json"

	"github.com/yanizio/seoedge/internal/resolve"
)

// MarkerID is the element id of the injected route script.
const MarkerID = "__SEO_ROUTE__"

type marker struct {
	Mode        string `json:"mode"`
	Identifier  string `json:"identifier"`
	ContentPath string `json:"content_path"`
	Host        string `json:"host"`
	Path        string `json:"path"`
	Source      string `json:"source"`
	Found       bool   `json:"found"`
	IDs         any    `json:"ids"`
}

// Marker returns the <script> element that hands the resolved route to the
// client application.  json.Marshal escapes <, >, and &, so the payload
// cannot close the script element early.
func Marker(res resolve.Result) []byte {
	payload, err := json.Marshal(marker{
		Mode:        string(res.Route.Mode),
		Identifier:  res.Route.Identifier,
		ContentPath: res.Route.ContentPath,
		Host:        res.Route.Host,
		Path:        res.Route.Path,
		Source:      res.Content.SourceTrace,
		Found:       res.Found(),
		IDs:         res.Content.IDs,
	})
	if err != nil {
		payload = []byte("{}")
	}
	var b bytes.Buffer
	b.WriteString(`<script id="` + MarkerID + `" type="application/json">`)
	b.Write(payload)
	b.WriteString(`</script>`)
	return b.Bytes()
}

// InjectMarker inserts Marker(res) before the first </head>.  Documents
// without a head element get the marker prepended.
func InjectMarker(doc []byte, res resolve.Result) []byte {
	m := Marker(res)
	i := bytes.Index(bytes.ToLower(doc), []byte("</head>"))
	if i < 0 {
		return append(m, doc...)
	}
	out := make([]byte, 0, len(doc)+len(m))
	out = append(out, doc[:i]...)
	out = append(out, m...)
	return append(out, doc[i:]...)
}
