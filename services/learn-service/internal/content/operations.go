package content

import "fmt"

// OperationKind names a single editor mutation
type OperationKind string

const (
	OpAddSection    OperationKind = "add_section"
	OpRemoveSection OperationKind = "remove_section"
	OpMoveSection   OperationKind = "move_section"
	OpUpdateSection OperationKind = "update_section"
	OpAddBlock      OperationKind = "add_block"
	OpRemoveBlock   OperationKind = "remove_block"
	OpMoveBlock     OperationKind = "move_block"
	OpUpdateBlock   OperationKind = "update_block"
)

// Operation is one editor mutation as sent by the admin client.
// Direction is -1 (up) or 1 (down) for move operations.
type Operation struct {
	Kind         OperationKind `json:"kind" validate:"required,oneof=add_section remove_section move_section update_section add_block remove_block move_block update_block"`
	SectionIndex int           `json:"sectionIndex"`
	BlockIndex   int           `json:"blockIndex"`
	Direction    int           `json:"direction"`
	Title        string        `json:"title"`
	BlockType    BlockType     `json:"blockType"`
	Content      string        `json:"content"`
	URL          *string       `json:"url"`
}

// Apply performs op on the editor. Operations addressing missing sections or
// blocks leave the content unchanged and report applied=false.
func (e *Editor) Apply(op Operation) (applied bool, err error) {
	switch op.Kind {
	case OpAddSection:
		e.AddSection(op.Title)
		return true, nil
	case OpRemoveSection:
		return e.RemoveSection(op.SectionIndex), nil
	case OpMoveSection:
		dir, err := ParseDirection(op.Direction)
		if err != nil {
			return false, err
		}
		return e.MoveSection(op.SectionIndex, dir), nil
	case OpUpdateSection:
		return e.UpdateSection(op.SectionIndex, op.Title), nil
	case OpAddBlock:
		_, ok := e.AddBlock(op.SectionIndex, op.BlockType)
		return ok, nil
	case OpRemoveBlock:
		return e.RemoveBlock(op.SectionIndex, op.BlockIndex), nil
	case OpMoveBlock:
		dir, err := ParseDirection(op.Direction)
		if err != nil {
			return false, err
		}
		return e.MoveBlock(op.SectionIndex, op.BlockIndex, dir), nil
	case OpUpdateBlock:
		return e.UpdateBlock(op.SectionIndex, op.BlockIndex, op.Content, op.URL), nil
	default:
		return false, fmt.Errorf("unknown operation %q", op.Kind)
	}
}
