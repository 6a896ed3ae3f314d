package diag

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/span"
)

// Publish replaces a document's diagnostics from a publishDiagnostics-shaped
// JSON payload:
//
//	{
//	  "uri": "file:///main.go",
//	  "version": 3,
//	  "diagnostics": [
//	    {"startOffset": 10, "endOffset": 14, "severity": 1,
//	     "code": "E0001", "source": "gopls", "message": "undefined: x"}
//	  ]
//	}
//
// Ranges arrive as document offsets ("startOffset"/"endOffset"), already
// converted from line/column by the caller's position mapper. A stale
// payload (version lower than the last accepted one) is dropped.
func (sv *Service) Publish(doc DocumentID, payload []byte) error {
	if !gjson.ValidBytes(payload) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}

	body := gjson.ParseBytes(payload)
	diagnostics := body.Get("diagnostics")
	if !diagnostics.Exists() || !diagnostics.IsArray() {
		return fmt.Errorf("%w: missing diagnostics array", ErrInvalidPayload)
	}
	version := body.Get("version").Int()

	parsed, err := sv.parseDiagnostics(diagnostics)
	if err != nil {
		return err
	}

	sv.mu.Lock()
	d, ok := sv.docs[doc]
	if !ok {
		d = &document{session: uuid.New()}
		sv.docs[doc] = d
	}
	if version != 0 && version < d.version {
		sv.mu.Unlock()
		sv.logger.Debug("dropping stale diagnostics",
			zap.String("doc", string(doc)),
			zap.Int64("version", version),
			zap.Int64("current", d.version))
		return nil
	}
	d.version = version
	d.registry = span.New()
	d.errorCount, d.warningCount, d.infoCount, d.hintCount = 0, 0, 0, 0
	for _, diag := range parsed {
		d.registry.Insert(diag.Range.Start, diag.Range.Len(), diag)
		switch diag.Severity {
		case SeverityError:
			d.errorCount++
		case SeverityWarning:
			d.warningCount++
		case SeverityInformation:
			d.infoCount++
		default:
			d.hintCount++
		}
	}
	onChange := sv.onChange
	current := collect(d.registry)
	sv.mu.Unlock()

	sv.logger.Debug("published diagnostics",
		zap.String("doc", string(doc)),
		zap.Int64("version", version),
		zap.Int("count", len(current)))

	if onChange != nil {
		onChange(doc, current)
	}
	return nil
}

func (sv *Service) parseDiagnostics(diagnostics gjson.Result) ([]Diagnostic, error) {
	var parsed []Diagnostic
	var parseErr error

	diagnostics.ForEach(func(_, item gjson.Result) bool {
		start := item.Get("startOffset")
		end := item.Get("endOffset")
		if !start.Exists() || !end.Exists() || start.Int() < 0 || end.Int() < start.Int() {
			parseErr = fmt.Errorf("%w: bad diagnostic range %s", ErrInvalidPayload, item.Raw)
			return false
		}

		severity := Severity(item.Get("severity").Int())
		if severity == 0 {
			severity = SeverityError
		}
		if severity > sv.minSeverity {
			return true
		}
		if sv.maxPerDoc > 0 && len(parsed) >= sv.maxPerDoc {
			return false
		}

		parsed = append(parsed, Diagnostic{
			Range:    buffer.Range{Start: start.Int(), End: end.Int()},
			Severity: severity,
			Code:     item.Get("code").String(),
			Source:   item.Get("source").String(),
			Message:  item.Get("message").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return parsed, nil
}
