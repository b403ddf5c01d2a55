package schema

// Kind tells the row transformer how to coerce a cell value.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindEnum   Kind = "enum"
)

// Canonical field keys of the quotation record schema.
const (
	KeyClientName    = "clientName"
	KeyRequestNumber = "requestNumber"
	KeyLineItem      = "lineItem"
	KeyPartNumber    = "partNumber"
	KeyDescription   = "description"
	KeyQuantity      = "quantity"
	KeyUnitPrice     = "unitPrice"
	KeyUnit          = "unit"
	KeyRequestDate   = "requestDate"
	KeyDueDate       = "dueDate"
)

// Field is one named, typed slot of the destination record schema.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Required bool     `json:"required"`
	Kind     Kind     `json:"kind"`
	Aliases  []string `json:"aliases"`
}

// fields is the canonical registry. Aliases are matched case-insensitively;
// Arabic variants come from the sheets our clients actually send.
var fields = []Field{
	{
		Key:      KeyClientName,
		Label:    "Client",
		Required: true,
		Kind:     KindText,
		Aliases:  []string{"client", "client name", "customer", "customer name", "العميل", "اسم العميل"},
	},
	{
		Key:     KeyRequestNumber,
		Label:   "Request No",
		Kind:    KindText,
		Aliases: []string{"request no", "request number", "req no", "rfq", "rfq no", "رقم الطلب"},
	},
	{
		Key:     KeyLineItem,
		Label:   "Line Item",
		Kind:    KindText,
		Aliases: []string{"line item", "line", "item no", "item number", "البند"},
	},
	{
		Key:     KeyPartNumber,
		Label:   "Part No",
		Kind:    KindText,
		Aliases: []string{"part no", "part number", "pn", "p/n", "mfr part no", "رقم القطعة"},
	},
	{
		Key:      KeyDescription,
		Label:    "Description",
		Required: true,
		Kind:     KindText,
		Aliases:  []string{"description", "item description", "desc", "material description", "الوصف", "البيان"},
	},
	{
		Key:      KeyQuantity,
		Label:    "Quantity",
		Required: true,
		Kind:     KindNumber,
		Aliases:  []string{"quantity", "qty", "q'ty", "الكمية"},
	},
	{
		Key:     KeyUnitPrice,
		Label:   "Unit Price",
		Kind:    KindNumber,
		Aliases: []string{"unit price", "price", "rate", "unit cost", "السعر", "سعر الوحدة"},
	},
	{
		Key:     KeyUnit,
		Label:   "Unit",
		Kind:    KindText,
		Aliases: []string{"unit", "uom", "unit of measure", "الوحدة"},
	},
	{
		Key:     KeyRequestDate,
		Label:   "Request Date",
		Kind:    KindDate,
		Aliases: []string{"request date", "date", "rfq date", "تاريخ الطلب"},
	},
	{
		Key:     KeyDueDate,
		Label:   "Due Date",
		Kind:    KindDate,
		Aliases: []string{"due date", "delivery date", "required date", "تاريخ التسليم"},
	},
}

// Fields returns the registry in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func ByKey(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func RequiredKeys() []string {
	keys := make([]string, 0)
	for _, f := range fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
