package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/attendance-kiosk/internal/capture"
	"golang.org/x/text/cases"
)

var errNoFrame = errors.New("no frame to submit")

// Submit sends one encoded frame for recognition and classifies the reply.
// It never fails: transport problems (network, timeout, non-2xx, malformed JSON,
// a match without a name) yield a TransportError outcome. There are no retries.
func (c *Client) Submit(ctx context.Context, frame *capture.Frame) Outcome {
	if frame == nil || len(frame.JPEG) == 0 {
		return Outcome{Kind: TransportError, Err: errNoFrame}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := doPostJSON[processImageResponse](ctx, c, "process_image", processImageRequest{Image: frame.DataURL()})
	if err != nil {
		return Outcome{Kind: TransportError, Err: err}
	}

	kind := classify(resp.Status)
	out := Outcome{Kind: kind, Message: resp.Message}
	if kind == Recognized || kind == AlreadyPresent {
		if strings.TrimSpace(resp.Name) == "" {
			return Outcome{Kind: TransportError, Err: fmt.Errorf("%s response without nama", resp.Status)}
		}
		out.Name = resp.Name
		out.Display = cases.Upper(c.lang).String(resp.Name)
	}
	return out
}
