package services

import (
	"encoding/base64"
	"fmt"
)

// FirehoseEvent is the Firehose transformation request. Record data stays
// base64 text and is decoded per record.
type FirehoseEvent struct {
	InvocationID      string           `json:"invocationId"`
	DeliveryStreamArn string           `json:"deliveryStreamArn"`
	Region            string           `json:"region"`
	Records           []FirehoseRecord `json:"records"`
}

// FirehoseRecord is one record of a transformation request
type FirehoseRecord struct {
	RecordID                    string `json:"recordId"`
	ApproximateArrivalTimestamp int64  `json:"approximateArrivalTimestamp"`
	Data                        string `json:"data"`
}

// decode returns the record payload
func (r FirehoseRecord) decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record data: %w", err)
	}
	return data, nil
}
