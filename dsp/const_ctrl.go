package dsp

import (
	"github.com/wrenaudio/synthio/buffer"
	"github.com/wrenaudio/synthio/module"
)

// ConstCtrl emits a fixed control value, for parameters that never
// change after a patch is built.
type ConstCtrl struct {
	module.Base
	value float32
}

// NewConstCtrl creates a node emitting value forever.
func NewConstCtrl(value float32) *ConstCtrl {
	return &ConstCtrl{value: value}
}

func (*ConstCtrl) NCtrlOut() int { return 1 }

func (c *ConstCtrl) Process(_ []float32, ctrlOut []float32, _ []*buffer.Buffer, _ []buffer.Buffer) {
	ctrlOut[0] = c.value
}
