//go:build !unix

package fsutil

func setUmask(int) func() { return func() {} }
