package blocks

import "fmt"

// Validate checks the depth policy: sections may hold grids and leaves, grids
// hold leaves only, and no section nests inside another container.
func Validate(list []Block) error {
	for i, b := range list {
		if err := validateTop(b); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

func validateTop(b Block) error {
	switch b.Kind {
	case KindSection:
		for i, c := range b.Children {
			switch c.Kind {
			case KindSection:
				return fmt.Errorf("child %d: section inside section", i)
			case KindGrid:
				if err := validateGrid(c); err != nil {
					return fmt.Errorf("child %d: %w", i, err)
				}
			}
		}
	case KindGrid:
		return validateGrid(b)
	}
	if b.Kind != KindSection && len(b.Children) > 0 {
		return fmt.Errorf("%s block has children", b.Kind)
	}
	return nil
}

func validateGrid(g Block) error {
	if len(g.Children) > 0 {
		return fmt.Errorf("grid has section children")
	}
	for i, cell := range g.Cells {
		for j, c := range cell {
			if c.Kind.IsContainer() {
				return fmt.Errorf("grid cell %d item %d: %s not allowed in grid", i, j, c.Kind)
			}
		}
	}
	return nil
}
