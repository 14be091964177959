// Package server runs HTTP listeners: the REST surface of the stand-in
// remote endpoint and the optional metrics listener of the client. It owns
// startup, signal handling and graceful shutdown.
package server
