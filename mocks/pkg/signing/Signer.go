package mocks

import mock "github.com/stretchr/testify/mock"

// Signer is a testify mock of signing.Signer.
type Signer struct {
	mock.Mock
}

// Sign provides a mock function with given fields: payload
func (_m *Signer) Sign(payload []byte) (string, error) {
	ret := _m.Called(payload)

	var r0 string
	if rf, ok := ret.Get(0).(func([]byte) string); ok {
		r0 = rf(payload)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func([]byte) error); ok {
		r1 = rf(payload)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
