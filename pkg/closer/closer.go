// Package closer управляет освобождением ресурсов приложения при завершении.
package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Func — функция освобождения одного ресурса.
type Func func(ctx context.Context) error

// Closer накапливает функции освобождения ресурсов и закрывает их в порядке LIFO.
// Close безопасен для повторных вызовов, фактическое закрытие выполняется один раз.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	funcs         []Func
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout отводится на принудительное
// закрытие ресурсов, не успевших закрыться до отмены контекста в Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия ресурса.
func (c *Closer) Add(f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
}

// Close закрывает ресурсы в обратном порядке регистрации.
// Если контекст отменяется раньше, оставшиеся функции добиваются
// параллельно с собственным таймаутом.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs := c.funcs
		c.mu.Unlock()

		var msgs []string

		for i := len(funcs) - 1; i >= 0; i-- {
			f := funcs[i]
			done := make(chan error, 1)

			go func() {
				done <- f(ctx)
			}()

			select {
			case ferr := <-done:
				if ferr != nil {
					msgs = append(msgs, ferr.Error())
				}
			case <-ctx.Done():
				msgs = append(msgs, c.forceClose(funcs[:i+1])...)
				err = fmt.Errorf(
					"shutdown interrupted, %d of %d funcs not closed gracefully:\n%s",
					i+1, len(funcs), strings.Join(msgs, "\n"),
				)
				return
			}
		}

		if len(msgs) > 0 {
			err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(msgs, "\n"))
		}
	})

	return err
}

// forceClose параллельно запускает оставшиеся функции с жёстким таймаутом.
func (c *Closer) forceClose(funcs []Func) []string {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		msgs []string
	)

	for _, f := range funcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				mu.Lock()
				msgs = append(msgs, "forced: "+err.Error())
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return msgs
}
