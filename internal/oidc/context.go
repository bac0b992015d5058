package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kaoden/goidc-authorize/internal/timeutil"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

var errNoIDTokenClaims = errors.New("id token processor returned no claims")

type Context struct {
	Response http.ResponseWriter
	Request  *http.Request
	*Configuration
	parent context.Context
}

func NewContext(
	w http.ResponseWriter,
	r *http.Request,
	config *Configuration,
) Context {
	return Context{
		Configuration: config,
		Response:      w,
		Request:       r,
	}
}

// FromContext returns a context that is not bound to an HTTP request. It is
// used when the components of the authorization endpoint are called
// directly.
func FromContext(ctx context.Context, config *Configuration) Context {
	return Context{
		Configuration: config,
		parent:        ctx,
	}
}

func Handler(
	config *Configuration,
	exec func(ctx Context),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exec(NewContext(w, r, config))
	}
}

func (ctx Context) Now() time.Time {
	if ctx.NowFunc == nil {
		return timeutil.Now()
	}
	return ctx.NowFunc()
}

func (ctx Context) RecordOutcome(grant goidc.GrantType, outcome string) {
	if ctx.Recorder == nil {
		return
	}
	ctx.Recorder.RecordOutcome(grant, outcome)
}

func (ctx Context) Client(id string) (*goidc.Client, error) {
	return ctx.ClientManager.Client(ctx, id)
}

func (ctx Context) SaveAuthorizationCode(code *goidc.AuthorizationCode) error {
	return ctx.GrantManager.SaveAuthorizationCode(ctx, code)
}

func (ctx Context) SaveAccessToken(token *goidc.AccessToken) error {
	return ctx.GrantManager.SaveAccessToken(ctx, token)
}

func (ctx Context) Consent(userID, clientID string) (*goidc.UserConsent, error) {
	return ctx.ConsentManager.Consent(ctx, userID, clientID)
}

func (ctx Context) UpsertConsent(
	userID, clientID string,
	scopes []string,
	expiresAt time.Time,
) (*goidc.UserConsent, bool, error) {
	return ctx.ConsentManager.Upsert(ctx, userID, clientID, scopes, expiresAt)
}

func (ctx Context) Subject(user goidc.User) string {
	if ctx.SubjectFunc == nil {
		return user.ID
	}
	return ctx.SubjectFunc(user)
}

// ProcessIDToken applies the configured ID token processors in order.
// A processor must return the claims to keep, an empty result is an error.
func (ctx Context) ProcessIDToken(
	claims goidc.IDTokenClaims,
	user goidc.User,
) (goidc.IDTokenClaims, error) {
	for _, p := range ctx.IDTokenProcessors {
		var err error
		claims, err = p.ProcessIDToken(ctx, claims, user)
		if err != nil {
			return nil, err
		}
		if claims == nil {
			return nil, errNoIDTokenClaims
		}
	}
	return claims, nil
}

func (ctx Context) Sign(claims goidc.IDTokenClaims) (string, error) {
	if ctx.Signer == nil {
		return "", goidc.ErrNoSigningKey
	}
	return ctx.Signer.Sign(ctx, claims)
}

func (ctx Context) User() (*goidc.User, bool) {
	if ctx.UserFunc == nil || ctx.Request == nil {
		return nil, false
	}
	return ctx.UserFunc(ctx.Request)
}

func (ctx Context) RenderLogin(req goidc.AuthorizationRequest) error {
	if ctx.RenderLoginFunc == nil {
		return goidc.NewError(goidc.ErrorCodeLoginRequired, "the user is not authenticated")
	}
	return ctx.RenderLoginFunc(ctx.Response, ctx.Request, req)
}

func (ctx Context) RenderConsent(c *goidc.Client, req goidc.AuthorizationRequest, challenge string) error {
	if ctx.RenderConsentFunc == nil {
		return goidc.NewError(goidc.ErrorCodeAccessDenied, "the user did not consent")
	}
	return ctx.RenderConsentFunc(ctx.Response, ctx.Request, c, req, challenge)
}

func (ctx Context) RenderError(err error) error {
	if ctx.RenderErrorFunc == nil {
		return err
	}
	return ctx.RenderErrorFunc(ctx.Response, ctx.Request, err)
}

// Write responds the current request writing obj as JSON.
func (ctx Context) Write(obj any, status int) error {
	// Check if the request was terminated before writing anything.
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(obj); err != nil {
		return err
	}

	return nil
}

func (ctx Context) WriteError(err error) {
	var oidcErr goidc.Error
	if !errors.As(err, &oidcErr) {
		if err := ctx.Write(map[string]any{
			"error":             goidc.ErrorCodeServerError,
			"error_description": "internal error",
		}, http.StatusInternalServerError); err != nil {
			ctx.Response.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	if err := ctx.Write(oidcErr, oidcErr.StatusCode()); err != nil {
		ctx.Response.WriteHeader(http.StatusInternalServerError)
	}
}

func (ctx Context) Redirect(redirectURL string) {
	http.Redirect(ctx.Response, ctx.Request, redirectURL, http.StatusFound)
}

//---------------------------------------- context.Context ----------------------------------------//

func (ctx Context) Context() context.Context {
	if ctx.Request != nil {
		return ctx.Request.Context()
	}
	if ctx.parent != nil {
		return ctx.parent
	}
	return context.Background()
}

func (ctx Context) Deadline() (deadline time.Time, ok bool) {
	return ctx.Context().Deadline()
}

func (ctx Context) Done() <-chan struct{} {
	return ctx.Context().Done()
}

func (ctx Context) Err() error {
	return ctx.Context().Err()
}

func (ctx Context) Value(key any) any {
	return ctx.Context().Value(key)
}
