// Package trefle searches the Trefle plant database for native distribution data.
package trefle
