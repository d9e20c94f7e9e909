// Package ids generates record and blob identifiers.
package ids

import (
	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// Generator hands out snowflake ids for records. Snowflake ids sort by creation
// time, which keeps id order and createdAt order aligned.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a generator for the given snowflake node (0-1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: node}, nil
}

// OrDefault is NewGenerator that falls back to node 1 on an invalid node id.
func OrDefault(nodeID int64) *Generator {
	g, err := NewGenerator(nodeID)
	if err != nil {
		g, _ = NewGenerator(1)
	}
	return g
}

// Next returns a new record id.
func (g *Generator) Next() string {
	if g == nil || g.node == nil {
		return NewKSUID()
	}
	return g.node.Generate().String()
}

// NewKSUID returns a globally unique, URL safe id. Used for blob storage ids.
func NewKSUID() string {
	return ksuid.New().String()
}
