// This file implements the demonstration data set created by scatter init --sample.
package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// SampleClientID is the fixed ID of the seeded demonstration client.
const SampleClientID = "sample-client-1"

// sampleBehaviors are seeded in column order.
var sampleBehaviors = []types.Behavior{
	{Name: "Aggression", Description: "Physical aggression towards others", Color: "#ef4444"},
	{Name: "Self-Injury", Description: "Self-injurious behavior", Color: "#f97316"},
	{Name: "Elopement", Description: "Attempting to leave designated area", Color: "#eab308"},
}

// SeedSample creates the demonstration client and its three behaviors.
// Seeding is idempotent: if the sample client exists nothing is written.
// Returns the sample client's ID.
func (b *Backend) SeedSample(ctx context.Context) (string, error) {
	_, err := b.GetClient(ctx, SampleClientID)
	if err == nil {
		return SampleClientID, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return "", err
	}

	client := &types.Client{
		ClientID:   SampleClientID,
		Name:       "Sample Client",
		Identifier: "SC001",
		Notes:      "Sample client for demonstration",
	}
	if _, err := b.CreateClient(ctx, client); err != nil {
		return "", err
	}

	for _, tmpl := range sampleBehaviors {
		bh := tmpl
		bh.ClientID = SampleClientID
		bh.BehaviorID = sampleBehaviorID(bh.Name)
		if _, err := b.CreateBehavior(ctx, &bh); err != nil {
			return "", err
		}
	}

	b.logger.Info("sample data seeded", "client_id", SampleClientID)
	return SampleClientID, nil
}

// sampleBehaviorID derives "sample-client-1-self-injury" from "Self-Injury".
func sampleBehaviorID(name string) string {
	return SampleClientID + "-" + strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
