package config

// SetGetwd overrides the working directory lookup and returns a restore func.
func SetGetwd(f func() (string, error)) func() {
	orig := getwd
	getwd = f
	return func() { getwd = orig }
}
