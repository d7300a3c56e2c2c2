// Package call2fa is a client for the Rikkicom Call2FA API: phone call as a
// second factor. A client authenticates once with API credentials, then places
// verification calls (plain, pool last-digits, or spoken code) and queries call
// state. Every operation is a single request/response exchange; the client
// keeps no state besides the JWT received at construction.
package call2fa
