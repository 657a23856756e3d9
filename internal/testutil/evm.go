package testutil

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/core/vm"
)

// assembler emits EVM bytecode with named jump targets. Every label
// reference is a PUSH2, so code offsets are known after one pass.
type assembler struct {
	code   []byte
	labels map[string]int
	fixups map[int]string // offset of PUSH2 operand -> label
}

func newAssembler() *assembler {
	return &assembler{
		labels: make(map[string]int),
		fixups: make(map[int]string),
	}
}

func (a *assembler) op(ops ...vm.OpCode) *assembler {
	for _, o := range ops {
		a.code = append(a.code, byte(o))
	}
	return a
}

// push emits the smallest PUSHn holding value
func (a *assembler) push(value []byte) *assembler {
	if len(value) == 0 || len(value) > 32 {
		panic(fmt.Sprintf("push of %d bytes", len(value)))
	}
	a.code = append(a.code, byte(vm.PUSH1)+byte(len(value)-1))
	a.code = append(a.code, value...)
	return a
}

func (a *assembler) pushUint(v uint64) *assembler {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return a.push(buf[i:])
}

func (a *assembler) pushLabel(name string) *assembler {
	a.code = append(a.code, byte(vm.PUSH2))
	a.fixups[len(a.code)] = name
	a.code = append(a.code, 0, 0)
	return a
}

// jumpdest marks a jump target
func (a *assembler) jumpdest(name string) *assembler {
	a.labels[name] = len(a.code)
	return a.op(vm.JUMPDEST)
}

// data appends raw bytes addressable by label
func (a *assembler) data(name string, b []byte) *assembler {
	a.labels[name] = len(a.code)
	a.code = append(a.code, b...)
	return a
}

func (a *assembler) bytes() []byte {
	out := append([]byte(nil), a.code...)
	for offset, name := range a.fixups {
		target, ok := a.labels[name]
		if !ok {
			panic("undefined label " + name)
		}
		binary.BigEndian.PutUint16(out[offset:], uint16(target))
	}
	return out
}
