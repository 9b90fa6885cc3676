package fattest

import "github.com/tinyfat/msdosfsck/fat"

// StubReconnector records every chain it's asked to reconnect and always
// succeeds, standing in for the rescue package's real implementation.
type StubReconnector struct {
	Reconnected []ReconnectCall
	Status      fat.Status
	Err         error
}

// ReconnectCall records one call to Reconnect.
type ReconnectCall struct {
	Head   fat.ClusterID
	Length uint
}

func (r *StubReconnector) Reconnect(head fat.ClusterID, length uint) (fat.Status, error) {
	r.Reconnected = append(r.Reconnected, ReconnectCall{Head: head, Length: length})
	if r.Err != nil {
		return fat.StatusError, r.Err
	}
	return r.Status, nil
}
