// Package nbconvert runs Jupyter notebooks in place through
// `python -m jupyter nbconvert --to notebook --execute --inplace`.
//
// The child process inherits the caller's stdout and stderr so notebook
// progress streams straight to the terminal. Its environment is exactly
// the domain.Environment passed to Execute.
package nbconvert
