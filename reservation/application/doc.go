// Package application contém os casos de uso (regras de aplicação) da reserva
// de assentos: coordenação de reservas, admissão global, throttle por titular,
// reservas em grupo e inspeção de ocupação.
//
// Ele depende apenas do pacote domain.
// Ex.: BookingService.Book(ctx, req) retorna a Reservation ou um erro classificável
// por domain.OutcomeOf.
package application
