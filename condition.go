package xlwrite

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// rowEnv is the environment row conditions are evaluated against.
// tableNo is -1 outside a table.
type rowEnv struct {
	SheetNo          int  `expr:"sheetNo"`
	TableNo          int  `expr:"tableNo"`
	RowIndex         int  `expr:"rowIndex"`
	RelativeRowIndex int  `expr:"relativeRowIndex"`
	IsHead           bool `expr:"isHead"`
}

// cellEnv is rowEnv plus the cell's column and header name.
type cellEnv struct {
	SheetNo          int    `expr:"sheetNo"`
	TableNo          int    `expr:"tableNo"`
	RowIndex         int    `expr:"rowIndex"`
	RelativeRowIndex int    `expr:"relativeRowIndex"`
	IsHead           bool   `expr:"isHead"`
	ColIndex         int    `expr:"colIndex"`
	HeadName         string `expr:"headName"`
}

func newRowEnv(sh *SheetHolder, tb *TableHolder, rowIndex, relativeRowIndex int, isHead bool) rowEnv {
	env := rowEnv{TableNo: -1, RowIndex: rowIndex, RelativeRowIndex: relativeRowIndex, IsHead: isHead}
	if sh != nil {
		env.SheetNo = sh.sheetNo
	}
	if tb != nil {
		env.TableNo = tb.tableNo
	}
	return env
}

func newCellEnv(sh *SheetHolder, tb *TableHolder, rowIndex, colIndex int, head *Head, relativeRowIndex int, isHead bool) cellEnv {
	r := newRowEnv(sh, tb, rowIndex, relativeRowIndex, isHead)
	env := cellEnv{
		SheetNo:          r.SheetNo,
		TableNo:          r.TableNo,
		RowIndex:         r.RowIndex,
		RelativeRowIndex: r.RelativeRowIndex,
		IsHead:           r.IsHead,
		ColIndex:         colIndex,
	}
	if head != nil {
		env.HeadName = head.Name(relativeRowIndex)
	}
	return env
}

func compileCondition(condition string, env any) (*vm.Program, error) {
	program, err := expr.Compile(condition, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: compile condition %q: %w", ErrInvalidArgument, condition, err)
	}
	return program, nil
}

// holds reports whether program evaluates to true. A runtime failure counts as false.
func holds(program *vm.Program, env any) bool {
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

// RowFilter forwards row events to another handler only when a condition holds.
// The condition sees sheetNo, tableNo, rowIndex, relativeRowIndex and isHead,
// e.g. `isHead && relativeRowIndex == 0`.
type RowFilter struct {
	condition string
	program   *vm.Program
	next      RowWriteHandler
}

var _ RowWriteHandler = (*RowFilter)(nil)

// NewRowFilter compiles condition. Syntax and type errors are reported as ErrInvalidArgument.
func NewRowFilter(condition string, next RowWriteHandler) (*RowFilter, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: row filter needs a handler", ErrInvalidArgument)
	}
	program, err := compileCondition(condition, rowEnv{})
	if err != nil {
		return nil, err
	}
	return &RowFilter{condition: condition, program: program, next: next}, nil
}

// Condition returns the source of the filter's condition.
func (f *RowFilter) Condition() string { return f.condition }

func (f *RowFilter) BeforeRowCreate(sh *SheetHolder, tb *TableHolder, rowIndex, relativeRowIndex int, isHead bool) {
	if holds(f.program, newRowEnv(sh, tb, rowIndex, relativeRowIndex, isHead)) {
		f.next.BeforeRowCreate(sh, tb, rowIndex, relativeRowIndex, isHead)
	}
}

func (f *RowFilter) AfterRowCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, relativeRowIndex int, isHead bool) {
	if holds(f.program, newRowEnv(sh, tb, row.RowNum(), relativeRowIndex, isHead)) {
		f.next.AfterRowCreate(sh, tb, row, relativeRowIndex, isHead)
	}
}

// CellFilter forwards cell events to another handler only when a condition
// holds. On top of the row variables the condition sees colIndex and headName.
type CellFilter struct {
	condition string
	program   *vm.Program
	next      CellWriteHandler
}

var _ CellWriteHandler = (*CellFilter)(nil)

// NewCellFilter compiles condition. Syntax and type errors are reported as ErrInvalidArgument.
func NewCellFilter(condition string, next CellWriteHandler) (*CellFilter, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: cell filter needs a handler", ErrInvalidArgument)
	}
	program, err := compileCondition(condition, cellEnv{})
	if err != nil {
		return nil, err
	}
	return &CellFilter{condition: condition, program: program, next: next}, nil
}

// Condition returns the source of the filter's condition.
func (f *CellFilter) Condition() string { return f.condition }

func (f *CellFilter) BeforeCellCreate(sh *SheetHolder, tb *TableHolder, row RowHandle, head *Head, relativeRowIndex int, isHead bool) {
	col := 0
	if head != nil {
		col = head.Index
	}
	if holds(f.program, newCellEnv(sh, tb, row.RowNum(), col, head, relativeRowIndex, isHead)) {
		f.next.BeforeCellCreate(sh, tb, row, head, relativeRowIndex, isHead)
	}
}

func (f *CellFilter) AfterCellCreate(sh *SheetHolder, tb *TableHolder, cell CellHandle, head *Head, relativeRowIndex int, isHead bool) {
	if holds(f.program, newCellEnv(sh, tb, cell.RowIndex(), cell.ColumnIndex(), head, relativeRowIndex, isHead)) {
		f.next.AfterCellCreate(sh, tb, cell, head, relativeRowIndex, isHead)
	}
}
