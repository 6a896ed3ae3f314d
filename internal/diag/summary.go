package diag

import (
	"github.com/tidwall/sjson"
)

// Summary returns a JSON severity summary for a document:
//
//	{"doc":"file:///main.go","version":3,"total":4,
//	 "errors":1,"warnings":2,"information":1,"hints":0}
func (sv *Service) Summary(doc DocumentID) ([]byte, error) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	d, ok := sv.docs[doc]
	if !ok {
		return nil, ErrUnknownDocument
	}

	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("doc", string(doc))
	set("session", d.session.String())
	set("version", d.version)
	set("total", d.registry.Len())
	set("errors", d.errorCount)
	set("warnings", d.warningCount)
	set("information", d.infoCount)
	set("hints", d.hintCount)
	if err != nil {
		return nil, err
	}
	return out, nil
}
