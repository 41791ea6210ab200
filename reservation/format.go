package reservation

import (
	"cinema-booking/reservation/domain"
)

// Describe traduz o resultado de Book no par (ok, mensagem) para exibição.
func Describe(r domain.Reservation, err error) (ok bool, message string) {
	if err != nil {
		return false, err.Error()
	}
	return true, r.Summary()
}
