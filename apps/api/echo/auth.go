package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/varadc-2304/admin-command-station/core"
	"github.com/varadc-2304/admin-command-station/core/auth"
)

var contextTokenKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	IsSuperadmin bool   `json:"is_superadmin,omitempty"`
}

// jwtHelper signs and checks the console session tokens.
type jwtHelper struct {
	config        middleware.JWTConfig
	issuer        string
	expiry        time.Duration
	refreshWindow time.Duration
}

func newJWTHelper(conf *core.Config) jwtHelper {
	return jwtHelper{
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		issuer:        conf.AppName,
		expiry:        conf.Server.JWTExpirationDelta,
		refreshWindow: conf.Server.JWTRefreshExpirationDelta,
	}
}

// GetSuperadminClaims returns fresh claims for the super-admin `username`.
// The original issue time is carried over on refresh.
func GetSuperadminClaims(conf *core.Config, username string, origIat ...int64) *Claims {
	return newJWTHelper(conf).claims(username, origIat...)
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	return newJWTHelper(conf).sign(claims)
}

func (h jwtHelper) claims(username string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    h.issuer,
			Subject:   username,
			ExpiresAt: now.Add(h.expiry).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     username,
		IsSuperadmin: true,
	}
}

func (h jwtHelper) sign(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(h.config.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(h.config.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	jwt      jwtHelper
	gate     *auth.Gate
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, h jwtHelper, gate *auth.Gate, validate *validator.Validate) {
	api := authApi{jwt: h, gate: gate, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.gate.Authenticate(data.Username, data.Password); err != nil {
		return core.NewValidationError(err)
	}
	token, err := api.jwt.sign(api.jwt.claims(api.gate.Username()))
	if err != nil {
		return failed(err, "Failed to sign in")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if !claims.IsSuperadmin || claims.Username != api.gate.Username() {
		return errHttpForbidden
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.jwt.refreshWindow)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	token, err := api.jwt.sign(api.jwt.claims(claims.Username, claims.OrigIssuedAt))
	if err != nil {
		return failed(err, "Failed to refresh token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
