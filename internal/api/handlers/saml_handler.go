package handlers

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/crewjam/saml/samlsp"
	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/config"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

// samlAttributes names the assertion attributes carrying the profile.
type samlAttributes struct {
	UID, FirstName, LastName, Mail string
}

// SAMLHandler is the service provider side of single sign-on. A completed
// login is exchanged for the same JWT the password login issues.
type SAMLHandler struct {
	sp          *samlsp.Middleware
	authService service.AuthService
	attrs       samlAttributes
	clientURL   string
	// attribute reads one assertion attribute from the request's session.
	attribute func(r *http.Request, name string) string
}

// NewSAMLHandler loads the SP key pair and fetches the IdP metadata.
func NewSAMLHandler(ctx context.Context, cfg *config.Config, authService service.AuthService) (*SAMLHandler, error) {
	keyPair, err := tls.LoadX509KeyPair(cfg.SAMLCertFile, cfg.SAMLKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load SAML key pair: %w", err)
	}
	keyPair.Leaf, err = x509.ParseCertificate(keyPair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse SAML certificate: %w", err)
	}
	key, ok := keyPair.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("SAML key must be an RSA private key")
	}

	idpMetadataURL, err := url.Parse(cfg.SAMLMetadataURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SAML metadata url: %w", err)
	}
	idpMetadata, err := samlsp.FetchMetadata(ctx, http.DefaultClient, *idpMetadataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch IdP metadata: %w", err)
	}

	rootURL, err := url.Parse(cfg.SAMLRootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid SAML root url: %w", err)
	}

	sp, err := samlsp.New(samlsp.Options{
		URL:         *rootURL,
		Key:         key,
		Certificate: keyPair.Leaf,
		IDPMetadata: idpMetadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SAML service provider: %w", err)
	}

	h := newSAMLHandler(authService, samlAttributes{
		UID:       cfg.SAMLAttrUID,
		FirstName: cfg.SAMLAttrFirst,
		LastName:  cfg.SAMLAttrLast,
		Mail:      cfg.SAMLAttrMail,
	}, cfg.ClientURL)
	h.sp = sp
	return h, nil
}

func newSAMLHandler(authService service.AuthService, attrs samlAttributes, clientURL string) *SAMLHandler {
	return &SAMLHandler{
		authService: authService,
		attrs:       attrs,
		clientURL:   strings.TrimRight(clientURL, "/"),
		attribute: func(r *http.Request, name string) string {
			return samlsp.AttributeFromContext(r.Context(), name)
		},
	}
}

// Register mounts login, logout, metadata and the assertion consumer.
func (h *SAMLHandler) Register(r gin.IRouter) {
	r.GET("/saml/login", gin.WrapH(h.sp.RequireAccount(http.HandlerFunc(h.complete))))
	r.GET("/saml/logout", h.Logout)
	r.GET("/saml/metadata", gin.WrapH(h.sp))
	r.POST("/saml/acs", gin.WrapH(h.sp))
}

// complete runs once the IdP session exists. It signs the user in and hands
// the token to the client app.
func (h *SAMLHandler) complete(w http.ResponseWriter, r *http.Request) {
	id := service.Identity{
		Username:  h.attribute(r, h.attrs.UID),
		FirstName: h.attribute(r, h.attrs.FirstName),
		LastName:  h.attribute(r, h.attrs.LastName),
		Email:     h.attribute(r, h.attrs.Mail),
	}

	user, token, err := h.authService.LoginFromAssertion(r.Context(), id)
	if err != nil {
		logger.Warnf("[SAML] Assertion for %q rejected: %v", id.Username, err)
		http.Error(w, "Authentication failed", statusFor(err))
		return
	}

	logger.Infof("[SAML] %s logged in", user.ID)
	http.Redirect(w, r, h.clientURL+"/?token="+url.QueryEscape(token), http.StatusFound)
}

func (h *SAMLHandler) Logout(c *gin.Context) {
	if h.sp != nil {
		if err := h.sp.Session.DeleteSession(c.Writer, c.Request); err != nil {
			logger.Warnf("[SAML] Failed to delete session: %v", err)
		}
	}
	c.Redirect(http.StatusFound, h.clientURL+"/")
}
