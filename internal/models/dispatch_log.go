package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TriggerSOS     = "sos"
	TriggerBulkSMS = "bulk_sms"
)

// DispatchLog records one notification attempt for an SOS incident.
type DispatchLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	IncidentID  primitive.ObjectID `bson:"incident_id" json:"incidentId"`
	Tenant      string             `bson:"tenant" json:"tenant"`
	Trigger     string             `bson:"trigger" json:"trigger"`
	Channel     string             `bson:"channel" json:"channel"`
	ContactName string             `bson:"contact_name,omitempty" json:"contactName,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Success     bool               `bson:"success" json:"success"`
	MessageID   string             `bson:"message_id,omitempty" json:"messageId,omitempty"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
