package apiclient

import "github.com/stemsi/campus-portal/internal/model"

// Aliases keep call sites short; the wire types live in model.
type (
	User         = model.User
	Credentials  = model.Credentials
	Registration = model.Registration
)

type tokenResponse = model.TokenResponse
