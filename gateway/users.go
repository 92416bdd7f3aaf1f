package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
)

// MyProfile returns the signed-in user with accounts and recent transactions.
func (c *Client) MyProfile(ctx context.Context) (*User, error) {
	var out User
	err := c.call(ctx, "my_profile", func(ctx context.Context) error {
		_, err := c.doEnvelope(ctx, http.MethodGet, "/users/me", nil, nil, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePassword changes the signed-in user's password.
func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	return c.message(ctx, "update_password", http.MethodPut, "/users/update-password", map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	})
}

// Upload is a file forwarded to the API as multipart form field "file".
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadProfilePicture replaces the signed-in user's profile picture.
func (c *Client) UploadProfilePicture(ctx context.Context, up Upload) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(up.Filename)))
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, up.Body); err != nil {
		return "", fmt.Errorf("failed to copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart body: %w", err)
	}

	var msg string
	err = c.call(ctx, "upload_profile_picture", func(ctx context.Context) error {
		env, err := c.sendEnvelope(ctx, http.MethodPut, "/users/profile-picture", nil, &buf, mw.FormDataContentType(), nil)
		if err != nil {
			return err
		}
		msg = env.Message
		return nil
	})
	return msg, err
}
