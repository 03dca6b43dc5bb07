package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/folharh/holerite-sync/internal/model"
)

// Client holds the IMAP connection settings for a mailbox.
type Client struct {
	cfg model.IMAPConfig
}

// NewClient creates a new IMAP client configuration.
func NewClient(cfg model.IMAPConfig) *Client {
	return &Client{cfg: cfg}
}

// Dial establishes a connection to the IMAP server, authenticates, and
// selects the configured mailbox in read-only mode. The caller must Close
// the returned session.
func (c *Client) Dial(_ context.Context) (*Session, error) {
	addr := c.cfg.Addr()

	// InsecureSkipVerify is a configured trade-off for providers whose
	// certificate chains fail strict verification; see model.IMAPConfig.
	tlsConfig := &tls.Config{
		ServerName:         c.cfg.Host,
		InsecureSkipVerify: c.cfg.InsecureSkipVerify,
	}
	opts := &imapclient.Options{TLSConfig: tlsConfig}

	var cli *imapclient.Client
	var err error

	if c.cfg.TLS {
		cli, err = imapclient.DialTLS(addr, opts)
	} else {
		cli, err = imapclient.DialStartTLS(addr, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := cli.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = cli.Logout().Wait()
		return nil, fmt.Errorf(
			"authenticating %s: %w", c.cfg.Username, err,
		)
	}

	mailbox := c.cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}

	selectOpts := &imap.SelectOptions{ReadOnly: true}
	if _, err := cli.Select(mailbox, selectOpts).Wait(); err != nil {
		_ = cli.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", mailbox, err)
	}

	return &Session{cli: cli}, nil
}

// Session is an authenticated IMAP session with a mailbox selected
// read-only.
type Session struct {
	cli    *imapclient.Client
	closed bool
}

// Close logs out and releases the connection. It is safe to call more than
// once; the connection is released exactly once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.cli.Logout().Wait(); err != nil {
		// Logout failing still tears down the connection.
		s.cli.Close()
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}
