package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"taskboard/internal/fetch"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

// Login posts credentials without a bearer token. The token is read from
// data.token, falling back to a top-level token field.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	req, err := fetch.JSON(http.MethodPost, c.url("/auth/login"), creds)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res := fetch.NewResource(c.plain)
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, res.Do(ctx, req)
	})
	if err != nil {
		switch fetch.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", service.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login failed: %w", wrapError(err))
	}

	var body struct {
		Status int             `json:"status"`
		Token  string          `json:"token"`
		Data   json.RawMessage `json:"data"`
	}
	if err := res.Decode(&body); err != nil {
		return "", fmt.Errorf("login failed: invalid response: %w", err)
	}
	if body.Status != 0 && body.Status != http.StatusOK {
		if body.Status == http.StatusUnauthorized {
			return "", service.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login failed: %w", &fetch.EnvelopeError{Want: http.StatusOK, Got: body.Status})
	}

	token := tokenFromData(body.Data)
	if token == "" {
		token = body.Token
	}
	if token == "" {
		return "", errors.New("login failed: response did not include a token")
	}
	logging.Logger.WithField("email", creds.Email).Debug("login accepted")
	return token, nil
}

func tokenFromData(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Token != "" {
		return obj.Token
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return ""
}

// Register sends the account as a JSON "user" part plus an optional
// profileImage file part. Any 2xx response counts as success.
func (c *Client) Register(ctx context.Context, reg service.Registration) error {
	userJSON, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	form := newForm()
	form.jsonPart("user", userJSON)
	form.file("profileImage", reg.ProfileImageName, reg.ProfileImage)
	req, err := form.request(http.MethodPost, c.url("/auth/register"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return fetch.Send(ctx, c.plain, req)
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", wrapError(err))
	}
	logging.Logger.WithField("email", reg.Email).Info("account registered")
	return nil
}

func (c *Client) GetUser(ctx context.Context, userID int64) (service.User, error) {
	var out service.User
	if err := c.get(ctx, c.url("/users/%d", userID), &out); err != nil {
		return service.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return out, nil
}

// UpdateUser sends the profile as multipart form fields.
func (c *Client) UpdateUser(ctx context.Context, userID int64, upd service.ProfileUpdate) (service.User, error) {
	form := newForm()
	form.field("firstName", upd.FirstName)
	form.field("lastName", upd.LastName)
	form.field("email", upd.Email)
	form.file("profileImage", upd.ProfileImageName, upd.ProfileImage)
	req, err := form.request(http.MethodPut, c.url("/users/%d", userID))
	if err != nil {
		return service.User{}, err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return service.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	var out service.User
	if err := fetch.DecodeEnvelope(body, http.StatusOK, &out); err != nil {
		return service.User{}, fmt.Errorf("failed to update profile: %w", wrapError(err))
	}
	return out, nil
}

// form accumulates a multipart body; the first write error sticks.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil || value == "" {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *form) jsonPart(name string, data []byte) {
	if f.err != nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, name))
	h.Set("Content-Type", "application/json")
	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(data)
}

func (f *form) file(name, filename string, data []byte) {
	if f.err != nil || len(data) == 0 {
		return
	}
	if filename == "" {
		filename = name
	}
	part, err := f.w.CreateFormFile(name, filename)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(data)
}

func (f *form) request(method, url string) (fetch.Request, error) {
	if f.err != nil {
		return fetch.Request{}, f.err
	}
	if err := f.w.Close(); err != nil {
		return fetch.Request{}, err
	}
	h := http.Header{}
	h.Set("Content-Type", f.w.FormDataContentType())
	return fetch.Request{Method: method, URL: url, Header: h, Body: bytes.NewReader(f.buf.Bytes())}, nil
}
