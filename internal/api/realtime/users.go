package realtime

import "github.com/Marga-Ghale/charge-tracker/internal/models"

func (r *Router) auth(c *call) {
	var p struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !c.bind(&p) {
		return
	}
	user, token, err := c.svc().Auth.Login(c.ctx, p.Username, p.Password)
	if err != nil {
		c.unexpected(err, errInvalidCredentials...)
		c.reply(UserAuthError)
		return
	}
	c.identify(user.ID, token)
	c.reply(models.TokenResponse{Token: token})
}

func (r *Router) verifyAuth(c *call) {
	var p struct{}
	if !c.bind(&p) {
		return
	}
	user, err := c.svc().Auth.ResolveToken(c.ctx, c.token)
	if err != nil {
		c.reply(UserAuthError)
		return
	}
	c.identify(user.ID, c.token)
	c.reply(models.NewUserResponse(user))
}
