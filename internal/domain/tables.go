package domain

// Tables lists every model in migration order; customers precede transactions for the foreign key.
var Tables = []interface{}{
	&User{},
	&Customer{},
	&Transaction{},
	&OprLog{},
}
