package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "rcrx"

// MachineID retrieves an ID identifying this machine for rcrx.
// The ID is derived from the machine id, not the raw value itself.
// It falls back to "rcrx" if the machine id is unavailable.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return appID
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
