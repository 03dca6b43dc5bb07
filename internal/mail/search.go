package mail

import (
	"fmt"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
)

// Criteria is the server-side search expression issued over a session.
type Criteria = imap.SearchCriteria

// BuildCriteria constructs the server-side search expression: messages
// whose subject contains any of the given keywords, received on or after
// since. Pure; the lookback date is computed by the caller.
func BuildCriteria(keywords []string, since time.Time) *Criteria {
	criteria := &imap.SearchCriteria{Since: since}

	var subject *imap.SearchCriteria
	for _, kw := range keywords {
		kc := &imap.SearchCriteria{
			Header: []imap.SearchCriteriaHeaderField{
				{Key: "Subject", Value: kw},
			},
		}
		if subject == nil {
			subject = kc
			continue
		}
		subject = &imap.SearchCriteria{
			Or: [][2]imap.SearchCriteria{{*subject, *kc}},
		}
	}

	// subject is either a single Header condition or a pure OR chain.
	if subject != nil {
		criteria.Header = subject.Header
		criteria.Or = subject.Or
	}

	return criteria
}

// SearchSubjects issues a UID SEARCH with the given criteria and returns
// the matching UIDs as opaque strings. An empty result is a valid
// no-matches outcome, not an error.
func (s *Session) SearchSubjects(criteria *Criteria) ([]string, error) {
	data, err := s.cli.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := data.AllUIDs()
	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}
