/*
Package authsdk provides a client SDK for the snazzyfellas authentication
service, plus the OAuth2 error model and wire types the server itself uses.

# Overview

The service implements the authorization code flow for first-party
applications:

 1. The browser is sent to GET /auth with client_id, redirect_uri and an
    optional state.
 2. The login form posts to POST /login, which redirects to
    redirect_uri?code=...&state=...
 3. The application exchanges the code at POST /token for an opaque bearer
    session key and an HS256 id token.
 4. Any service resolves the bearer key at GET /userinfo.

# Usage

	client := authsdk.NewSDKClient("https://auth.example.com")

	login, err := client.Login(ctx, authsdk.LoginRequest{
		Username:    "alice",
		Password:    "correct-horse",
		ClientID:    "client-42",
		RedirectURI: "https://app.example/cb",
	})
	if errors.Is(err, authsdk.ErrLoginInvalidCredentials) {
		// wrong username or password
	}

	tokens, err := client.Exchange(ctx, login.Code)
	info, err := client.UserInfo(ctx, tokens.AccessToken)

Applications that share the server's JWT_SECRET can check the id token
locally:

	claims, err := authsdk.VerifyIDToken(tokens.IDToken, secret, issuer, "client-42")

# Error Handling

Endpoint failures are returned as *OAuth2Error and match the predefined
values by code:

	if errors.Is(err, authsdk.ErrInvalidGrant) {
		// code unknown, expired or already redeemed
	}

# Administration

When the server runs with ADMIN_PANEL=true, CreateUser, CreateApplication
and ListApplications provision accounts using the ADMIN_TOKEN bearer.
*/
package authsdk
