package eventuals

// Pipe2 composes two stages right-associatively: piping the result into
// a downstream continuation k first materializes b against k, then
// materializes a against the result — exactly as a|b.Compose(k) ==
// a.Compose(b.Compose(k)).
//
// Grounded on the bassosimone-nop Compose2..Compose8 nesting pattern,
// adapted from synchronous Func[A,B] composition to continuation
// materialization.
func Pipe2[A, B, C any](a Composable[A, B], b Composable[B, C]) Composable[A, C] {
	return ComposableFunc[A, C](func(next Continuation[C]) Continuation[A] {
		return a.Compose(b.Compose(next))
	})
}

func Pipe3[A, B, C, D any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
) Composable[A, D] {
	return Pipe2(a, Pipe2(b, c))
}

func Pipe4[A, B, C, D, E any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
	d Composable[D, E],
) Composable[A, E] {
	return Pipe2(a, Pipe3(b, c, d))
}

func Pipe5[A, B, C, D, E, F any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
	d Composable[D, E],
	e Composable[E, F],
) Composable[A, F] {
	return Pipe2(a, Pipe4(b, c, d, e))
}

func Pipe6[A, B, C, D, E, F, G any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
	d Composable[D, E],
	e Composable[E, F],
	f Composable[F, G],
) Composable[A, G] {
	return Pipe2(a, Pipe5(b, c, d, e, f))
}

func Pipe7[A, B, C, D, E, F, G, H any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
	d Composable[D, E],
	e Composable[E, F],
	f Composable[F, G],
	g Composable[G, H],
) Composable[A, H] {
	return Pipe2(a, Pipe6(b, c, d, e, f, g))
}

func Pipe8[A, B, C, D, E, F, G, H, I any](
	a Composable[A, B],
	b Composable[B, C],
	c Composable[C, D],
	d Composable[D, E],
	e Composable[E, F],
	f Composable[F, G],
	g Composable[G, H],
	h Composable[H, I],
) Composable[A, I] {
	return Pipe2(a, Pipe7(b, c, d, e, f, g, h))
}
