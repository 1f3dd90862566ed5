package isa

import (
	"log"

	"github.com/lancelot2112/soccore/bitfield"
)

var logger = log.Default()

// SetLogger overrides the package logger (matches bus.SetLogger's
// teacher-idiom package-global swap point).
func SetLogger(l *log.Logger) { logger = l }

func specFromAdHoc(wordBits int, spec string) (*bitfield.Spec, error) {
	s, err := bitfield.FromSpecStr(wordBits, spec)
	if err != nil {
		return nil, MachineWrap("invalid ad-hoc bit spec", err)
	}
	return s, nil
}
