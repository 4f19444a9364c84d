package xlwrite

import "fmt"

// writeHead emits the header block of the current scope below the last row of
// the current sheet, offset by the configured relative head row index. Merged
// regions are applied first, then rows top to bottom and cells left to right,
// each bracketed by the row and cell handlers in effect.
func (c *WriteContext) writeHead(head HeadSpec) error {
	if head == nil || !c.selector.NeedHead() || !head.HasHead() {
		return nil
	}
	sheet := c.sheet.sheet
	rowIndex := max(sheet.LastRowNum()+1+c.selector.RelativeHeadRowIndex(), 0)

	for _, r := range head.MergedRegions() {
		if err := sheet.AddMergedRegion(r.Translate(rowIndex)); err != nil {
			return fmt.Errorf("add head merged region: %w", err)
		}
	}

	handlers := c.selector.HandlerMap()
	heads := head.HeadList()
	for relativeRowIndex := 0; relativeRowIndex < head.HeadRowNumber(); relativeRowIndex++ {
		i := rowIndex + relativeRowIndex
		handlers.beforeRowCreate(c.sheet, c.table, i, relativeRowIndex, true)
		row, err := sheet.CreateRow(i)
		if err != nil {
			return fmt.Errorf("create head row %d: %w", i, err)
		}
		handlers.afterRowCreate(c.sheet, c.table, row, relativeRowIndex, true)
		if lh := c.workbook.writeHandler; lh != nil {
			lh.Row(row.RowNum(), row)
		}
		if err := c.writeHeadRow(handlers, row, heads, relativeRowIndex); err != nil {
			return err
		}
	}
	c.log.Debug("head written", "sheet_no", c.sheet.sheetNo, "first_row", rowIndex, "rows", head.HeadRowNumber())
	return nil
}

func (c *WriteContext) writeHeadRow(handlers *HandlerMap, row RowHandle, heads []*Head, relativeRowIndex int) error {
	for _, head := range heads {
		handlers.beforeCellCreate(c.sheet, c.table, row, head, relativeRowIndex, true)
		cell, err := row.CreateCell(head.Index, head.Value(relativeRowIndex))
		if err != nil {
			return fmt.Errorf("create head cell %s: %w", CellName(row.RowNum(), head.Index), err)
		}
		handlers.afterCellCreate(c.sheet, c.table, cell, head, relativeRowIndex, true)
		if lh := c.workbook.writeHandler; lh != nil {
			lh.Cell(cell.RowIndex(), cell)
		}
	}
	return nil
}
