package entity

import "fmt"

// Counter identifica un tipo de documento con consecutivo propio por negocio y año fiscal.
type Counter string

// Consecutivos por tipo de documento.
const (
	CounterInvoice               Counter = "invoice"
	CounterPurchaseInvoice       Counter = "purchase_invoice"
	CounterReturnPurchaseInvoice Counter = "return_purchase_invoice"
	CounterOutgoingPayment       Counter = "outgoing_payment"
	CounterIncomingPayment       Counter = "incoming_payment"
	CounterLocalSaleInvoice      Counter = "local_sale_invoice"
	CounterSalesReturnInvoice    Counter = "sales_return_invoice"
	CounterCreditNote            Counter = "credit_note"
	CounterDebitNote             Counter = "debit_note"
	CounterProductionOrder       Counter = "production_order"
	CounterPayroll               Counter = "payroll"
)

// Counters lista todos los consecutivos en orden estable.
var Counters = []Counter{
	CounterInvoice,
	CounterPurchaseInvoice,
	CounterReturnPurchaseInvoice,
	CounterOutgoingPayment,
	CounterIncomingPayment,
	CounterLocalSaleInvoice,
	CounterSalesReturnInvoice,
	CounterCreditNote,
	CounterDebitNote,
	CounterProductionOrder,
	CounterPayroll,
}

var counterPrefixes = map[Counter]string{
	CounterInvoice:               "FV",
	CounterPurchaseInvoice:       "FC",
	CounterReturnPurchaseInvoice: "DC",
	CounterOutgoingPayment:       "CE",
	CounterIncomingPayment:       "RC",
	CounterLocalSaleInvoice:      "VL",
	CounterSalesReturnInvoice:    "DV",
	CounterCreditNote:            "NC",
	CounterDebitNote:             "ND",
	CounterProductionOrder:       "OP",
	CounterPayroll:               "NM",
}

// Valid informa si el consecutivo es uno de los conocidos.
func (c Counter) Valid() bool {
	_, ok := counterPrefixes[c]
	return ok
}

// Prefix prefijo de numeración del documento.
func (c Counter) Prefix() string { return counterPrefixes[c] }

// Seeds guarda el siguiente número a emitir por tipo de documento.
type Seeds map[Counter]int64

// NewSeeds devuelve todos los consecutivos en 1.
func NewSeeds() Seeds {
	s := make(Seeds, len(Counters))
	for _, c := range Counters {
		s[c] = 1
	}
	return s
}

// Clone copia los consecutivos.
func (s Seeds) Clone() Seeds {
	out := make(Seeds, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Normalize completa consecutivos faltantes o no positivos con 1.
func (s Seeds) Normalize() Seeds {
	if s == nil {
		return NewSeeds()
	}
	for _, c := range Counters {
		if s[c] < 1 {
			s[c] = 1
		}
	}
	return s
}

// FormatDocumentNumber arma el número visible de un documento: FV-2025-000007.
func FormatDocumentNumber(c Counter, fiscalYear int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", c.Prefix(), fiscalYear, seq)
}
