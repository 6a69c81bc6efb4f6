package webreg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	report_client_get_all_terms      = "client.get-all-terms"
	report_client_associate_term     = "client.associate-term"
	report_client_ping_server        = "client.ping-server"
	report_client_get_account_name   = "client.get-account-name"
	report_client_send_email_to_self = "client.send-email-to-self"
)

// GetAllTerms lists every term the portal knows of, not only the ones the
// session is associated with.
func (c *Client) GetAllTerms(ctx context.Context) ([]Term, error) {
	ctx, span := tracer.Start(ctx, "client:GetAllTerms")
	defer span.End()

	rows, err := getJson[[]RawTermListItem](ctx, c, EndpointTermList, url.Values{
		"_": {c.epochMillis()},
	})
	if err != nil {
		c.report(report_client_get_all_terms, err)
		return nil, err
	}
	terms := make([]Term, len(rows))
	for i, row := range rows {
		terms[i] = Term{
			SeqId:       row.SeqId,
			TermCode:    strings.TrimSpace(row.TermCode),
			Description: strings.TrimSpace(row.TermDescription),
		}
	}
	return terms, nil
}

func (c *Client) associate(ctx context.Context, term Term) error {
	params := func() url.Values {
		return url.Values{
			"termcode": {term.TermCode},
			"seqid":    {strconv.FormatInt(term.SeqId, 10)},
			"_":        {c.epochMillis()},
		}
	}

	_, err := c.send(ctx, "GET", EndpointStatusStart, params())
	if err != nil {
		return err
	}
	eligibility := params()
	eligibility.Set("logged", "true")
	_, err = c.send(ctx, "GET", EndpointCheckEligibility, eligibility)
	return err
}

// AssociateTerm makes the session usable for a term, fresh sessions are not
// associated with any term and every term-scoped request fails with
// ErrWrongTerm until they are.
func (c *Client) AssociateTerm(ctx context.Context, termCode string) error {
	ctx, span := tracer.Start(ctx, "client:AssociateTerm")
	defer span.End()

	terms, err := c.GetAllTerms(ctx)
	if err != nil {
		return err
	}
	for _, term := range terms {
		if !strings.EqualFold(term.TermCode, strings.TrimSpace(termCode)) {
			continue
		}
		err = c.associate(ctx, term)
		if err != nil {
			c.report(report_client_associate_term, fmt.Errorf("%s: %w", termCode, err))
		}
		return err
	}

	err = &InputError{Field: "term", Message: fmt.Sprintf("unknown term %q", termCode)}
	c.report(report_client_associate_term, err)
	return err
}

// RegisterAllTerms associates the session with every term, it stops at the
// first term that fails.
func (c *Client) RegisterAllTerms(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:RegisterAllTerms")
	defer span.End()

	terms, err := c.GetAllTerms(ctx)
	if err != nil {
		return err
	}
	for _, term := range terms {
		err = c.associate(ctx, term)
		if err != nil {
			err = fmt.Errorf("%s: %w", term.TermCode, err)
			c.report(report_client_associate_term, err)
			return err
		}
	}
	return nil
}

// PingServer reports whether the session is still valid, it also keeps the
// session from idling out.
func (c *Client) PingServer(ctx context.Context) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:PingServer")
	defer span.End()

	res, err := getJson[rawPingResponse](ctx, c, EndpointPing, url.Values{
		"_": {c.epochMillis()},
	})
	if errors.Is(err, ErrSessionExpired) {
		return false, nil
	}
	if err != nil {
		c.report(report_client_ping_server, err)
		return false, err
	}
	return res.SessionOk, nil
}

// GetAccountName returns the name of the account owning the session.
func (c *Client) GetAccountName(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "client:GetAccountName")
	defer span.End()

	ok, err := c.PingServer(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionExpired
	}

	body, err := c.send(ctx, "GET", EndpointAccountName, url.Values{})
	if err != nil {
		c.report(report_client_get_account_name, err)
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// SendEmailToSelf makes the portal send content to the account's email
// address from the registrar's no-reply address.
func (c *Client) SendEmailToSelf(ctx context.Context, content string) error {
	ctx, span := tracer.Start(ctx, "client:SendEmailToSelf")
	defer span.End()

	body, err := c.send(ctx, "POST", EndpointSendEmail, url.Values{
		"actionevent": {content},
		"termcode":    {c.Term()},
	})
	if err != nil {
		c.report(report_client_send_email_to_self, err)
		return err
	}
	if !bytes.Contains(body, []byte(`"YES"`)) {
		err = &PortalError{Reason: "email was not sent"}
		c.report(report_client_send_email_to_self, err)
		return err
	}
	return nil
}
