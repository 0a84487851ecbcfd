package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBookingEvent(t *testing.T) {
	event, err := decodeBookingEvent([]byte(`{"type":"booking_created","ref_id":"AC-20260901-0001","user_id":7,"origin":"DEL","destination":"BLR","status":"BOOKED","pieces":3,"weight_kg":120}`))

	assert.NoError(t, err)
	assert.Equal(t, "booking_created", event.Type)
	assert.Equal(t, "AC-20260901-0001", event.RefID)
	assert.Equal(t, int64(7), event.UserID)
}

func TestDecodeBookingEvent_Malformed(t *testing.T) {
	_, err := decodeBookingEvent([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestDecodeBookingEvent_MissingRefID(t *testing.T) {
	_, err := decodeBookingEvent([]byte(`{"type":"booking_created"}`))
	assert.Error(t, err)
}
