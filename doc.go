// Package driveway is a small HTTP gateway that runs the three-legged OAuth2
// authorization-code flow against Google, keeps the resulting token pair in a
// pluggable credential store, refreshes the access token on demand, and
// uploads files to Google Drive on behalf of the authenticated user.
//
// The root package holds the HTTP surface (configuration, router, middleware,
// handlers). The credential state machine lives in the credentials package;
// provider and Drive calls live in the google package.
package driveway
