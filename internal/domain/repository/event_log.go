package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// EventLog define el puerto del registro ordenado y append-only de eventos de
// stock: la única fuente de verdad desde la cual todo balance es reproducible.
//
// Append no valida contenido (eso es trabajo del motor): falla únicamente si
// el medio de persistencia no está disponible. El orden de append es un orden
// total; reproducir el log completo desde el estado vacío debe producir
// exactamente el Balance actual de cada producto.
type EventLog interface {
	// Append anexa el evento, asigna su Position monótona (y su ID si viene
	// vacío) y los escribe sobre el propio evento.
	Append(ctx context.Context, ev *entity.StockEvent) error

	// ReadSince entrega los eventos con Position > fromPosition en orden de
	// append, invocando fn por cada uno. Reiniciable desde cualquier posición;
	// si fn retorna error la lectura se detiene y el error se propaga.
	ReadSince(ctx context.Context, fromPosition int64, fn func(*entity.StockEvent) error) error

	// LastPosition devuelve la última posición asignada, o 0 si el log está vacío.
	LastPosition(ctx context.Context) (int64, error)
}
