// Package mail sends raw MIME messages with attachments through SES.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type EmailInfo struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type rawSender interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type Mailer struct {
	client rawSender
}

func Connect(ctx context.Context) (*Mailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Mailer{client: ses.NewFromConfig(cfg)}, nil
}

// SendEmail returns the SES message id.
func (m *Mailer) SendEmail(ctx context.Context, info *EmailInfo) (string, error) {
	if len(info.To) == 0 {
		return "", fmt.Errorf("send email: no recipients")
	}
	emailRaw, err := BuildEmailBuffer(info)
	if err != nil {
		return "", err
	}

	res, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: emailRaw.Bytes()},
	})
	if err != nil {
		return "", fmt.Errorf("send raw email: %w", err)
	}
	return aws.ToString(res.MessageId), nil
}

func BuildEmailBuffer(info *EmailInfo) (*bytes.Buffer, error) {
	var emailRaw bytes.Buffer
	writer := multipart.NewWriter(&emailRaw)
	boundary := writer.Boundary()

	headers := fmt.Sprintf("From: %s\r\n", info.From)
	if len(info.To) > 0 {
		headers += fmt.Sprintf("To: %s\r\n", strings.Join(info.To, ", "))
	}
	if len(info.Cc) > 0 {
		headers += fmt.Sprintf("Cc: %s\r\n", strings.Join(info.Cc, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", info.Subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary)
	headers += "\r\n"
	emailRaw.WriteString(headers)

	// text/plain and text/html alternatives
	altBuf := &bytes.Buffer{}
	altWriter := multipart.NewWriter(altBuf)

	altHeaders := textproto.MIMEHeader{}
	altHeaders.Set("Content-Type", "multipart/alternative; boundary="+altWriter.Boundary())
	altPart, err := writer.CreatePart(altHeaders)
	if err != nil {
		return nil, err
	}

	for _, body := range []struct{ contentType, text string }{
		{"text/plain; charset=UTF-8", info.Text},
		{"text/html; charset=UTF-8", info.HTML},
	} {
		if body.text == "" {
			continue
		}
		part, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {body.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(body.text)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}

	if err := altWriter.Close(); err != nil {
		return nil, err
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range info.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		b := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
		base64.StdEncoding.Encode(b, att.Content)

		// wrap lines at 76 chars
		for i := 0; i < len(b); i += 76 {
			end := min(i+76, len(b))
			part.Write(b[i:end])
			part.Write([]byte("\r\n"))
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return &emailRaw, nil
}
