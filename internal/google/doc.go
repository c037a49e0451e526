// Package google provides OAuth2 credentials for the Google Calendar API.
//
// A CredentialProvider returns a usable token by, in order:
//   - reusing a valid token from the token file,
//   - refreshing an expired token that carries a refresh token,
//   - running the interactive local-redirect authorization flow.
//
// Refreshed and newly authorized tokens are written back to the token file.
// The token file is not locked; concurrent processes refreshing the same
// file race and the last writer wins.
package google
