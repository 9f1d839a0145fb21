// Package proxy builds the HTTP transports that carry probe traffic.
//
// Probes either go out directly, through a user-supplied proxy endpoint
// (socks5:// or http://), or through an embedded Tor daemon managed by
// this package. All variants produce a plain *http.Transport so the rest
// of the application never cares which route is in use.
package proxy
