package dto

// Credentials is the optional JSON body of /register and /login. Query
// parameters take precedence when both are sent.
type Credentials struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Username string   `json:"username,omitempty" maxLength:"150" doc:"Username (case-sensitive)"`
	Password string   `json:"password,omitempty" maxLength:"1024" doc:"Password"`
}

// CredentialsInput accepts credentials as query parameters or a JSON body.
type CredentialsInput struct {
	Username string       `query:"username" maxLength:"150" doc:"Username (case-sensitive)"`
	Password string       `query:"password" maxLength:"1024" doc:"Password"`
	Body     *Credentials `required:"false"`
}

// Resolve returns the username and password, preferring query parameters.
func (in *CredentialsInput) Resolve() (username, password string) {
	username, password = in.Username, in.Password
	if in.Body != nil {
		if username == "" {
			username = in.Body.Username
		}
		if password == "" {
			password = in.Body.Password
		}
	}
	return username, password
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" doc:"Bearer access token"`
	TokenType   string `json:"token_type" doc:"Always \"bearer\""`
	ExpiresIn   int64  `json:"expires_in" doc:"Seconds until the token expires"`
}

// TokenOutput wraps the token response for huma.
type TokenOutput struct {
	Body TokenResponse
}

// MeResponse identifies the authenticated user.
type MeResponse struct {
	ID       int64  `json:"id" doc:"User ID"`
	Username string `json:"username" doc:"Username"`
}

// MeOutput wraps the current user response for huma.
type MeOutput struct {
	Body MeResponse
}
