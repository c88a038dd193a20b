package submit

import (
	"errors"
	"net/http"
	"strings"

	"cardfields/internal/frames"
	"cardfields/internal/restapi"
)

// fieldPaths maps request pointer suffixes to the frame that renders them.
// Order matters: the first match wins.
var fieldPaths = []struct {
	suffix string
	kind   frames.Kind
}{
	{"/card/number", frames.KindNumber},
	{"/card/security_code", frames.KindCVV},
	{"/card/expiry", frames.KindExpiry},
	{"/card/name", frames.KindName},
	{"/postal_code", frames.KindPostal},
}

func kindOfPath(path string) (frames.Kind, bool) {
	for _, p := range fieldPaths {
		if strings.HasSuffix(path, p.suffix) {
			return p.kind, true
		}
	}
	return 0, false
}

// applyRemoteErrors routes the field details of an upstream 422 onto the
// mounted frames. A composite frame receives every detail.
func (s *service) applyRemoteErrors(registry frames.Registry, err error) {
	var apiErr *restapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity || len(apiErr.Details) == 0 {
		return
	}

	cf := registry.ListCardFrames()
	byKind := make(map[frames.Kind]frames.Frame)
	for _, f := range cf.Mounted() {
		byKind[f.Kind()] = f
	}

	grouped := make(map[frames.Kind][]frames.RemoteError)
	for _, d := range apiErr.Details {
		kind, ok := kindOfPath(d.Field)
		if !ok {
			continue
		}
		target := kind
		if cf.Composite != nil {
			target = frames.KindComposite
		}
		if _, mounted := byKind[target]; !mounted {
			continue
		}
		grouped[target] = append(grouped[target], frames.RemoteError{
			Field:   kind.FieldKey(),
			Code:    d.Issue,
			Message: d.Description,
		})
	}

	for kind, errs := range grouped {
		byKind[kind].SetRemoteErrors(errs)
	}
	if len(grouped) > 0 {
		s.logger.WithField("frames", len(grouped)).Debug(EventRemoteErrorsApplied)
	}
}
