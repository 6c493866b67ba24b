package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"declsym/internal/types"
)

// ConstantValue is a typed compile-time constant or the BadValue sentinel.
type ConstantValue struct {
	value int64
	typ   types.TypeID
	bad   bool
}

// BadValue marks a constant whose value cannot be determined right now.
var BadValue = ConstantValue{bad: true}

// NewConstant wraps v with its type.
func NewConstant(v int64, typ types.TypeID) ConstantValue {
	return ConstantValue{value: v, typ: typ}
}

// Int32Constant builds an int32 constant. Values outside the int32 range
// yield BadValue.
func Int32Constant(v int, typ types.TypeID) ConstantValue {
	n, err := safecast.Conv[int32](v)
	if err != nil {
		return BadValue
	}
	return NewConstant(int64(n), typ)
}

// IsBad reports whether c is the sentinel.
func (c ConstantValue) IsBad() bool { return c.bad }

// Value returns the wrapped integer; ok is false for BadValue.
func (c ConstantValue) Value() (int64, bool) {
	if c.bad {
		return 0, false
	}
	return c.value, true
}

// Type returns the constant's type, NoTypeID for BadValue.
func (c ConstantValue) Type() types.TypeID { return c.typ }

func (c ConstantValue) String() string {
	if c.bad {
		return "<bad>"
	}
	return fmt.Sprintf("%d", c.value)
}
