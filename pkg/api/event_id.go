package api

// GetEventId accessors let transport code read the event a request
// targets without knowing its type. They are safe on nil receivers.

func (x *GetEventRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *RenameEventRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *DeleteEventRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *AddParticipantRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *UpdateParticipantRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *RemoveParticipantRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *AddExpenseRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *UpdateExpenseRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *RemoveExpenseRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *AddTagRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *RemoveTagRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *ComputeOpenDebtsRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *GetSettledHistoryRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *GetDebtViewRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *SwitchViewRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *SettleDebtRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *AddTransactionRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *CancelTransactionRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}

func (x *GetStatisticsRequest) GetEventId() string {
	if x == nil {
		return ""
	}
	return x.EventId
}
