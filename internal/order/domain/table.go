package domain

// TableChange is the table bookkeeping an order edit requires.
type TableChange struct {
	Release string
	Occupy  string
}

// Retarget applies an order-type and/or table change. newType and newTable
// are nil when the caller did not ask for a change. Only dine-in orders
// carry a table.
func (o *Order) Retarget(newType *Type, newTable *string, newLabel string) (TableChange, error) {
	oldType, oldTable := o.Type, o.TableID

	if newType != nil && *newType != oldType {
		if !newType.Valid() {
			return TableChange{}, validationf("unknown order type %q", *newType)
		}
		o.PreviousType = oldType
		o.Type = *newType
	}

	tableChanged := newTable != nil && *newTable != oldTable
	if newTable != nil {
		o.TableID = *newTable
		o.TableLabel = newLabel
	}
	if o.Type != TypeDineIn {
		o.TableID, o.TableLabel = "", ""
	} else if o.TableID == "" {
		return TableChange{}, validationf("dine-in order requires a table")
	}

	var change TableChange
	if oldType == TypeDineIn && oldTable != "" && (o.Type != TypeDineIn || tableChanged) {
		change.Release = oldTable
	}
	if o.Type == TypeDineIn && (oldType != TypeDineIn || tableChanged) {
		change.Occupy = o.TableID
	}
	return change, nil
}

// ReleaseDecision resolves whether a table is freed. An explicit freeTable
// always wins, then keepOccupied, then the operation default.
func ReleaseDecision(freeTable *bool, keepOccupied, byDefault bool) bool {
	if freeTable != nil {
		return *freeTable
	}
	if keepOccupied {
		return false
	}
	return byDefault
}
