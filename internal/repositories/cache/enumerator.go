package cache

import (
	"context"

	"cardfields/internal/frames"

	"github.com/sirupsen/logrus"
)

// LoadEnumerator reads the frames of a session once and exposes them as frame
// exports. Remote error changes made through the exports are written back to
// the store.
func LoadEnumerator(ctx context.Context, store SessionStore, sessionID string, log logrus.FieldLogger) (frames.Enumerator, error) {
	snaps, err := store.GetFrames(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sink := func(kind frames.Kind, errs []frames.RemoteError) {
		if err := store.SetRemoteErrors(ctx, sessionID, kind, errs); err != nil {
			log.WithFields(logrus.Fields{
				"session_id": sessionID,
				"frame":      kind.String(),
				"error":      err.Error(),
			}).Warn("failed to store remote errors")
		}
	}

	var enum frames.StaticEnumerator
	for kind := frames.KindComposite; kind <= frames.KindPostal; kind++ {
		snap, ok := snaps[kind]
		if !ok {
			continue
		}
		enum = append(enum, frames.NewField(kind, snap).WithRemoteErrorSink(sink))
	}
	return enum, nil
}
