package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Store mantiene el log de eventos y los balances en memoria, compartido por
// los repositorios y el TxRunner del paquete. Es el driver para desarrollo
// local y tests, con la misma semántica que el driver de PostgreSQL: las
// posiciones se reservan en el append (una transacción abortada deja hueco,
// como una secuencia bigserial) y la sección crítica por producto se retiene
// hasta el final de la transacción.
type Store struct {
	mu       sync.RWMutex
	events   []*entity.StockEvent // ordenados por Position
	lastPos  int64
	balances map[string]*entity.Balance

	productLocks keyedMutex
}

func NewStore() *Store {
	return &Store{
		balances: make(map[string]*entity.Balance),
	}
}

// reservePosition reserva la siguiente posición del log. La reserva no se
// devuelve si la transacción aborta.
func (s *Store) reservePosition() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPos++
	return s.lastPos
}

// insertCommitted inserta eventos comprometidos preservando el orden por
// Position. Se invoca con s.mu tomado.
func (s *Store) insertCommitted(evs []*entity.StockEvent) {
	for _, ev := range evs {
		i := sort.Search(len(s.events), func(i int) bool {
			return s.events[i].Position > ev.Position
		})
		s.events = append(s.events, nil)
		copy(s.events[i+1:], s.events[i:])
		s.events[i] = ev
	}
}

// committedSince devuelve una copia instantánea de los eventos comprometidos
// con Position mayor a fromPosition.
func (s *Store) committedSince(fromPosition int64) []*entity.StockEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Position > fromPosition
	})
	out := make([]*entity.StockEvent, len(s.events)-i)
	copy(out, s.events[i:])
	return out
}

// balanceCopy devuelve una copia del balance comprometido, o el balance
// implícito en cero si el producto no tiene eventos.
func (s *Store) balanceCopy(productID string) *entity.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.balances[productID]; ok {
		c := *b
		return &c
	}
	return &entity.Balance{ProductID: productID}
}

// keyedMutex serializa el acceso por producto. Las entradas no se eliminan;
// el tamaño queda acotado por el número de productos vistos.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *keyedMutex) Lock(key string)   { k.get(key).Lock() }
func (k *keyedMutex) Unlock(key string) { k.get(key).Unlock() }
