package app

import (
	"errors"

	"github.com/five82/dockyard/internal/platform"
)

var errNoPlatform = errors.New("no platform backend")

// subsystems is a scoped acquisition of platform subsystems. release is
// safe to call any number of times and on a nil receiver.
type subsystems struct {
	plat     platform.Platform
	released bool
}

// acquireSubsystems initializes s. On failure whatever the platform brought
// up is torn down again before the error is returned.
func acquireSubsystems(p platform.Platform, s platform.Subsystem) (*subsystems, error) {
	subs := &subsystems{plat: p}
	if err := p.Init(s); err != nil {
		subs.release()
		return nil, err
	}
	return subs, nil
}

func (s *subsystems) release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.plat.Quit()
}
