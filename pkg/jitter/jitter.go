// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы несколько инстансов не переподключались к ресурсу синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — доля случайной добавки к интервалу (50%).
const DefaultJitter = 0.5

// Duration возвращает d со случайной добавкой в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return d + time.Duration(rand.Float64()*jitterFactor*float64(d))
}

// DurationWithRand — вариант Duration с заданным генератором,
// для детерминированного поведения в тестах.
func DurationWithRand(d time.Duration, jitterFactor float64, rng *rand.Rand) time.Duration {
	return d + time.Duration(rng.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff удваивает базовый интервал на каждую попытку,
// ограничивает его значением max и применяет джиттер.
// attempt нумеруется с нуля.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}

	return Duration(backoff, jitterFactor)
}
