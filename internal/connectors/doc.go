// Package connectors holds clients for the remote services proceedings are
// read from. Each connector adapts one service to the driven ports.
package connectors
