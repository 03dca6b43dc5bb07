package mail

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emersion/go-imap/v2"
)

// FetchAll requests the full body of every message in ids and invokes
// deliver once per message as its body arrives. The server may deliver
// bodies in any order; each one is attributed to its UID before delivery.
//
// A transport-level failure aborts the remaining batch and is returned as
// a single error; messages delivered before the failure have already been
// handed to deliver. Per-message problems (an undeliverable body) are
// skipped, not fatal to the batch.
func (s *Session) FetchAll(
	ctx context.Context,
	ids []string,
	deliver func(RawMessage),
) error {
	if len(ids) == 0 {
		return nil
	}

	uids := make([]imap.UID, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid message UID %q: %w", id, err)
		}
		uids = append(uids, imap.UID(n))
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.cli.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetching messages: %w", err)
		}

		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		body := buf.FindBodySection(bodySection)
		if body == nil {
			continue
		}

		deliver(RawMessage{
			UID:  strconv.FormatUint(uint64(buf.UID), 10),
			Body: body,
		})
	}

	if err := fetchCmd.Close(); err != nil {
		return fmt.Errorf("fetching messages: %w", err)
	}

	return nil
}
